package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create a backend account",
	Long: `Creates an account on the backend. Usernames are limited to 20
characters, with Chinese characters counting as two. An avatar image
can be attached with --avatar.`,
	Args: cobra.MaximumNArgs(1),
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

		password, err := (&promptui.Prompt{Label: "Password", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}
		confirm, err := (&promptui.Prompt{Label: "Confirm password", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		ctx := context.Background()
		avatarPath, _ := cmd.Flags().GetString("avatar")
		if avatarPath == "" {
			if err := client.Register(ctx, username, password, "", nil); err != nil {
				return fmt.Errorf("register failed: %w", err)
			}
		} else {
			f, err := os.Open(avatarPath)
			if err != nil {
				return fmt.Errorf("opening avatar: %w", err)
			}
			defer f.Close()
			if err := client.Register(ctx, username, password, filepath.Base(avatarPath), f); err != nil {
				return fmt.Errorf("register failed: %w", err)
			}
		}

		fmt.Printf("账号 %s 已创建，使用 minpai login 登录。\n", username)
		return nil
	},
}

func init() {
	registerCmd.Flags().String("avatar", "", "avatar image file (png/jpg/jpeg/gif, max 2MB)")
	rootCmd.AddCommand(registerCmd)
}
