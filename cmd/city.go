package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/city"
)

var tabLabels = map[string]string{
	"culture":     "文化",
	"attractions": "景点",
	"food":        "美食",
	"history":     "历史",
}

var cityCmd = &cobra.Command{
	Use:   "city <名称>",
	Short: "Show a city detail page",
	Long: `Shows the detail page of one of the five interactive cities
(福州, 南平, 龙岩, 泉州, 莆田), by Chinese or latin name. Use --mark
to record the city as explored.`,
	Args: cobra.ExactArgs(1),
	RunE: runCity,
}

func init() {
	cityCmd.Flags().String("tab", "culture", "tab to open: culture, attractions, food, history")
	cityCmd.Flags().Bool("mark", false, "mark this city as explored")
	rootCmd.AddCommand(cityCmd)
}

func runCity(cmd *cobra.Command, args []string) error {
	info, ok := city.Lookup(args[0])
	if !ok {
		info, ok = city.LookupEn(args[0])
	}
	if !ok {
		return fmt.Errorf("unknown city %q: choose one of 福州, 南平, 龙岩, 泉州, 莆田", args[0])
	}

	detail := city.NewDetail(info)
	tab, _ := cmd.Flags().GetString("tab")
	for i, name := range detail.Tabs() {
		if name == tab {
			detail.SelectTab(i)
		}
	}

	fmt.Printf("%s · %s\n", info.Name, info.Subtitle)
	fmt.Println(strings.Repeat("=", 32))

	var tabs []string
	for i, name := range detail.Tabs() {
		label := tabLabels[name]
		if i == detail.ActiveTab() {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	fmt.Println(strings.Join(tabs, "  "))
	fmt.Println()
	fmt.Println(info.Description)

	mark, _ := cmd.Flags().GetBool("mark")
	if !mark {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	outcome, err := detail.MarkExplored(context.Background(), client)
	if err != nil {
		return fmt.Errorf("marking %s: %w", info.Name, err)
	}
	switch outcome {
	case city.MarkedNow:
		fmt.Printf("\n已标记 %s 为已探索！\n", info.Name)
	case city.AlreadyExplored:
		fmt.Printf("\n%s 已经探索过了。\n", info.Name)
	}
	return nil
}
