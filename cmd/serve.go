package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local web page in front of the backend",
	Long: `Starts a local web gateway with the chat page, city list and map
data endpoints. The gateway holds one backend session, so run
` + "`minpai login`" + ` first if you want exploration features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Serve.Port
		}

		srv := webui.New(webui.Config{
			Port:     port,
			AllowAll: cfg.Serve.AllowAll,
		}, client)

		// Graceful shutdown on Ctrl-C.
		done := make(chan error, 1)
		go func() { done <- srv.Start() }()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		fmt.Printf("open http://localhost:%d in your browser\n", port)
		select {
		case err := <-done:
			return err
		case <-sig:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (defaults to serve.port from config)")
	rootCmd.AddCommand(serveCmd)
}
