package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the AI culture assistant",
	Long: `Opens an interactive chat with the AI assistant. Replies type out
character by character. Commands inside the chat:

  /clear    reset the conversation (asks for confirmation)
  /export   write the transcript to a text file
  /quit     leave the chat (the conversation is saved locally)`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("no-typewriter", false, "print replies at once")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	database, err := openData(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	noTypewriter, _ := cmd.Flags().GetBool("no-typewriter")
	ctx := context.Background()
	ctrl := chat.New(client)
	history := chat.NewHistory(database)

	printReply(ctx, ctrl, ctrl.Turns()[0], noTypewriter)
	fmt.Println("\n不知道问什么？试试：")
	for _, s := range chat.Suggestions {
		fmt.Printf("  · %s\n", s)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return saveChat(ctx, history, ctrl)
		case line == "/clear":
			confirm := promptui.Prompt{Label: "确定要清空聊天记录吗", IsConfirm: true}
			if _, err := confirm.Run(); err == nil {
				ctrl.Clear()
				fmt.Println("聊天记录已清空。")
				printReply(ctx, ctrl, ctrl.Turns()[0], true)
			}
			continue
		case strings.HasPrefix(line, "/export"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/export"))
			if path == "" {
				path = "闽派新语聊天记录.txt"
			}
			if err := exportChat(ctrl, path); err != nil {
				fmt.Fprintf(os.Stderr, "导出失败: %v\n", err)
			} else {
				fmt.Printf("已导出到 %s\n", path)
			}
			continue
		}

		turn, err := ctrl.Send(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		printReply(ctx, ctrl, turn, noTypewriter)
	}

	return saveChat(ctx, history, ctrl)
}

// printReply types the assistant turn out rune by rune, then marks it
// revealed so clear and export see a settled transcript.
func printReply(ctx context.Context, ctrl *chat.Controller, turn chat.Turn, instant bool) {
	fmt.Print("AI: ")
	if instant {
		fmt.Println(turn.Text)
	} else {
		for r := range chat.Reveal(ctx, turn.Text, chat.DefaultRevealInterval) {
			fmt.Printf("%c", r)
		}
		fmt.Println()
	}
	ctrl.MarkRevealed(turn.ID)
}

func exportChat(ctrl *chat.Controller, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ctrl.Export(f)
}

func saveChat(ctx context.Context, history *chat.History, ctrl *chat.Controller) error {
	// The greeting alone is not worth a history row.
	turns := ctrl.Turns()
	if len(turns) < 2 {
		return nil
	}
	id, err := history.SaveConversation(ctx, turns)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	if verbose {
		fmt.Printf("conversation saved as %s\n", id)
	}
	return nil
}
