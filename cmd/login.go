package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in to the backend",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		username := ""
		if len(args) == 1 {
			username = args[0]
		} else {
			prompt := promptui.Prompt{Label: "Username"}
			username, err = prompt.Run()
			if err != nil {
				return fmt.Errorf("username prompt: %w", err)
			}
		}

		pwPrompt := promptui.Prompt{Label: "Password", Mask: '*'}
		password, err := pwPrompt.Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}

		ctx := context.Background()
		if err := client.Login(ctx, username, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		nav := session.Check(ctx, client)
		if nav.State != session.SignedIn {
			return fmt.Errorf("login did not establish a session")
		}

		// Persist the session cookie so later invocations stay signed in.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
		}
		if err := client.SaveCookies(cookiePath(cfg)); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("欢迎，%s！\n", nav.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
