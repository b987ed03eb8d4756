package main

import (
	"os"

	"github.com/minpaixinyu/minpai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
