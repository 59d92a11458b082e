package main

import (
	"os"

	"github.com/mattsolo1/grove-chatdemo/cmd"
	"github.com/mattsolo1/grove-core/cli"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"chatdemo",
		"Scripted chat demo playback",
	)

	rootCmd.AddCommand(cmd.NewPlayCmd())
	rootCmd.AddCommand(cmd.NewTraceCmd())
	rootCmd.AddCommand(cmd.NewScriptsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
