// Package commands implements the cascade CLI, in the manner of the
// teacher's cmd/network/commands: a cobra root command with viper-backed
// flag binding, one subcommand per lifecycle action (keygen, run, version).
package commands

import (
	"github.com/spf13/cobra"
)

var config = NewDefaultCLIConfig()

// RootCmd is the root command for cascade.
var RootCmd = &cobra.Command{
	Use:              "cascade",
	Short:            "cascade belief-merge consensus node",
	TraverseChildren: true,
}
