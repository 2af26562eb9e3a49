package main

import (
	"os"

	"github.com/mosaicnetworks/cascade/cmd/cascade/commands"
)

func main() {
	rootCmd := commands.RootCmd

	rootCmd.AddCommand(
		commands.VersionCmd,
		commands.NewKeygenCmd(),
		commands.NewRunCmd(),
	)

	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
