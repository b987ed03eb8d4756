package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/account"
	"github.com/minpaixinyu/minpai/internal/api"
	"github.com/minpaixinyu/minpai/internal/session"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account (user center)",
}

var accountStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state and exploration progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, client, err := accountController()
		if err != nil {
			return err
		}
		ctx := context.Background()

		nav := session.Check(ctx, client)
		if nav.State != session.SignedIn {
			fmt.Println("未登录。使用 minpai login 登录。")
			return nil
		}
		fmt.Printf("当前用户：%s\n\n", nav.Username)

		statuses, err := ctrl.ExploredList(ctx)
		if err != nil {
			return fmt.Errorf("loading explorations: %w", err)
		}
		fmt.Println("城市探索进度：")
		for _, s := range statuses {
			mark := "未探索"
			if s.Explored {
				mark = "已探索 ★"
			}
			fmt.Printf("  %s  %s\n", s.Name, mark)
		}
		return nil
	},
}

var accountAvatarCmd = &cobra.Command{
	Use:   "avatar <图片文件>",
	Short: "Upload a new avatar (png/jpg/jpeg/gif, max 2MB)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := accountController()
		if err != nil {
			return err
		}
		if err := ctrl.UploadAvatar(context.Background(), args[0]); err != nil {
			return fmt.Errorf("uploading avatar: %w", err)
		}
		fmt.Println("头像已更新。")
		return nil
	},
}

var accountPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := accountController()
		if err != nil {
			return err
		}

		old, err := (&promptui.Prompt{Label: "当前密码", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}
		newPw, err := (&promptui.Prompt{Label: "新密码（至少6位）", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}
		confirm, err := (&promptui.Prompt{Label: "确认新密码", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}

		form := account.PasswordChange{Old: old, New: newPw, Confirm: confirm}
		if err := ctrl.ChangePassword(context.Background(), form); err != nil {
			return fmt.Errorf("changing password: %w", err)
		}
		fmt.Println("密码已修改。")
		return nil
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Permanently delete your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, _, err := accountController()
		if err != nil {
			return err
		}

		confirm := promptui.Prompt{
			Label:     "此操作不可恢复，确定要注销账号吗",
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("已取消。")
			return nil
		}

		password, err := (&promptui.Prompt{Label: "请输入密码确认", Mask: '*'}).Run()
		if err != nil {
			return fmt.Errorf("password prompt: %w", err)
		}

		if err := ctrl.DeleteAccount(context.Background(), password); err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}
		fmt.Println("账号已注销。")
		return nil
	},
}

func accountController() (*account.Controller, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return account.New(client), client, nil
}

func init() {
	accountCmd.AddCommand(accountStatusCmd)
	accountCmd.AddCommand(accountAvatarCmd)
	accountCmd.AddCommand(accountPasswordCmd)
	accountCmd.AddCommand(accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}
