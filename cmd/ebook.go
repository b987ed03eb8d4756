package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/ebook"
)

var ebookCmd = &cobra.Command{
	Use:   "ebook <文件.pdf>",
	Short: "Read a local PDF ebook",
	Long: `Opens a PDF in a terminal pager (requires poppler's pdftotext and
pdfinfo). Reading position is bookmarked per file and restored on the
next open. Keys inside the pager:

  n / p      next / previous page
  f / l      first / last page
  g <页码>   jump to a page
  + / - / 0  zoom in / out / reset
  d          toggle single page / spread
  q          quit (saves the bookmark)`,
	Args: cobra.ExactArgs(1),
	RunE: runEbook,
}

func init() {
	rootCmd.AddCommand(ebookCmd)
}

func runEbook(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openData(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	path := args[0]

	doc, err := ebook.OpenPDF(ctx, path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	bookmarks := ebook.NewBookmarks(database)
	startPage := 1
	if page, ok, err := bookmarks.Get(ctx, path); err == nil && ok {
		startPage = page
		fmt.Printf("从书签恢复：第 %d 页\n", page)
	}

	viewer := ebook.NewViewer(func(frame ebook.Frame, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "渲染失败: %v\n", err)
			return
		}
		mode := "单页"
		if frame.Mode == ebook.ModeSpread {
			mode = "双页"
		}
		fmt.Printf("\n── 第 %d/%d 页 · 缩放 %.1f · %s ──\n\n", frame.Page, frame.Pages, frame.Scale, mode)
		fmt.Println(frame.Text)
	})
	viewer.Open(ctx, doc, startPage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("ebook> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "q" || line == "quit":
			if err := bookmarks.Set(ctx, path, viewer.Page()); err != nil {
				fmt.Fprintf(os.Stderr, "保存书签失败: %v\n", err)
			}
			return nil
		case line == "n":
			viewer.NextPage()
		case line == "p":
			viewer.PrevPage()
		case line == "f":
			viewer.FirstPage()
		case line == "l":
			viewer.LastPage()
		case strings.HasPrefix(line, "g"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "g")))
			if err != nil {
				fmt.Println("用法：g <页码>")
				continue
			}
			viewer.GoTo(n)
		case line == "+":
			viewer.ZoomIn()
		case line == "-":
			viewer.ZoomOut()
		case line == "0":
			viewer.ZoomReset()
		case line == "d":
			if viewer.Mode() == ebook.ModeSingle {
				viewer.SetMode(ebook.ModeSpread)
			} else {
				viewer.SetMode(ebook.ModeSingle)
			}
		case line == "":
			viewer.NextPage()
		default:
			fmt.Println("未知命令，输入 q 退出。")
		}
	}

	return bookmarks.Set(ctx, path, viewer.Page())
}
