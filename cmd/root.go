package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "minpai",
	Short: "Terminal client for the 闽派新语 Fujian culture platform",
	Long: `minpai is a terminal client for the 闽派新语 backend. It covers the
AI culture chat, the Fujian exploration map, city detail pages, the
knowledge quiz, the local-document ebook reader and the user center,
and can serve a small local web page in front of the same backend.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".minpai.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
