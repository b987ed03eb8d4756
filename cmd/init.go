package cmd

import (
	"github.com/spf13/cobra"

	"github.com/minpaixinyu/minpai/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize minpai configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the backend address and local data directory, and generates a .minpai.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
