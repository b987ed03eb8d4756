package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		if err := client.Logout(context.Background()); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}

		// Drop the saved session so later invocations start signed out.
		if err := os.Remove(cookiePath(cfg)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing saved session: %w", err)
		}

		fmt.Println("已退出登录。")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
