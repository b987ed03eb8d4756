package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/atlas"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show the Fujian exploration map",
	Long: `Loads the Fujian boundary data and your exploration record, and
prints every region with its current state. Use --mark to record a
city as explored.`,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().String("mark", "", "mark the named city as explored")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	m := atlas.New()
	if err := m.Load(ctx, client); err != nil {
		return fmt.Errorf("loading map: %w", err)
	}

	if mark, _ := cmd.Flags().GetString("mark"); mark != "" {
		if _, ok := m.Region(mark); !ok {
			return fmt.Errorf("unknown region: %s", mark)
		}
		m.MarkExplored(ctx, client, mark)
		fmt.Printf("已标记 %s 为已探索。\n\n", mark)
	}

	if !m.SignedIn() {
		fmt.Println("未登录：探索记录不可用，地图仍然可以浏览。")
	}

	fmt.Println("福建地图")
	fmt.Println(strings.Repeat("-", 32))
	for _, region := range m.Regions() {
		marker := "  "
		if region.Explored {
			marker = "★ "
		}
		interactive := ""
		if info := m.Click(region.Name); info != nil {
			interactive = "  (minpai city " + region.Name + ")"
		}
		fmt.Printf("%s%s%s\n", marker, region.Name, interactive)
	}

	if explored := m.Explored(); len(explored) > 0 {
		fmt.Printf("\n已探索 %d 座城市：%s\n", len(explored), strings.Join(explored, "、"))
	}
	return nil
}
