package commands

import (
	cascadeconfig "github.com/mosaicnetworks/cascade/config"
)

// CLIConfig contains configuration for the run command, the way the
// teacher's network/commands.CLIConfig wraps babble.BabbleConfig with the
// extra flags specific to the CLI layer.
type CLIConfig struct {
	Node     cascadeconfig.Config `mapstructure:",squash"`
	PeersURL string               `mapstructure:"peers"`
}

// NewDefaultCLIConfig creates a CLIConfig with default values.
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Node: *cascadeconfig.DefaultConfig(),
	}
}
