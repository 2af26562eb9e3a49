package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/gossip"
	"github.com/mosaicnetworks/cascade/internal/logging"
	"github.com/mosaicnetworks/cascade/peers"
	"github.com/mosaicnetworks/cascade/pki"
	"github.com/mosaicnetworks/cascade/store"

	"github.com/mosaicnetworks/cascade/consensus"
)

// NewRunCmd returns the command that starts a cascade node: load or
// generate its key pair, open its store, join the network's Router, and
// drive a Hub's heartbeat until interrupted. Structured the way the
// teacher's own run command loads config then hands off to a long-running
// engine (cmd/babble/commands/run.go, cmd/network/commands/run.go).
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a cascade node",
		PreRunE: loadConfig,
		RunE:    runNode,
	}

	AddRunFlags(cmd)

	return cmd
}

// AddRunFlags adds flags to the run command.
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", config.Node.DataDir, "Top-level directory for key, store and peers.json")
	cmd.Flags().StringP("listen", "l", config.Node.BindAddr, "Listen IP:Port for the gossip Router")
	cmd.Flags().Duration("heartbeat", config.Node.GossipHeartbeat, "Time between gossip push rounds")
	cmd.Flags().Int("fanout", config.Node.GossipFanout, "Number of peers reached per push round")
	cmd.Flags().String("peers", config.PeersURL, "Directory containing peers.json (defaults to datadir)")
	cmd.Flags().Bool("store", false, "Use the badger-backed DiskStore instead of MemStore")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := bindFlagsLoadViper(cmd); err != nil {
		return err
	}

	config.Node.Logger.WithFields(logrus.Fields{
		"datadir":   config.Node.DataDir,
		"listen":    config.Node.BindAddr,
		"heartbeat": config.Node.GossipHeartbeat,
		"fanout":    config.Node.GossipFanout,
	}).Debug("RUN")

	return nil
}

// bindFlagsLoadViper binds the run command's flags into viper and, if a
// cascade.toml/.json/.yaml is present in datadir, layers its values on top
// — the same two-pass bind-then-read-config-file sequence the teacher uses
// (cmd/babble/commands/run.go's bindFlagsLoadViper).
func bindFlagsLoadViper(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.Unmarshal(config); err != nil {
		return err
	}

	viper.SetConfigName("cascade")
	viper.AddConfigPath(config.Node.DataDir)

	if err := viper.ReadInConfig(); err == nil {
		config.Node.Logger.Debugf("using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		config.Node.Logger.Debugf("no config file found in: %s", config.Node.DataDir)
	} else {
		return err
	}

	return viper.Unmarshal(config)
}

func runNode(cmd *cobra.Command, args []string) error {
	logger := logging.WithComponent(config.Node.Logger, "cmd")

	keys, err := pki.LoadOrGenerate(config.Node.DataDir)
	if err != nil {
		return fmt.Errorf("cascade: loading key pair: %w", err)
	}

	cellStore, closeStore, err := openStore(cmd, config.Node.DataDir)
	if err != nil {
		return err
	}
	defer closeStore()

	roster, err := loadRoster(config.PeersURL, config.Node.DataDir)
	if err != nil {
		return err
	}

	genesis := data.NewState(nil, nil, nil, nil)
	peer := consensus.NewPeer(keys, genesis, cellStore, config.Node.Logger)

	router, err := gossip.NewRouter(config.Node.BindAddr, logger)
	if err != nil {
		return fmt.Errorf("cascade: starting router: %w", err)
	}
	go func() {
		if err := router.Run(); err != nil {
			logger.WithError(err).Error("router stopped")
		}
	}()
	defer router.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	selector := gossip.NewSelector(roster.AccountKeys(), peer.AccountKey())
	hub, err := gossip.Dial(ctx, config.Node.BindAddr, peer, selector, config.Node.GossipFanout, config.Node.GossipHeartbeat, logger)
	if err != nil {
		return fmt.Errorf("cascade: dialing gossip hub: %w", err)
	}
	defer hub.Close()

	logger.WithFields(logrus.Fields{
		"account_key": peer.AccountKey().ToHexString(8),
		"peers":       roster.Len(),
	}).Info("cascade node started")

	go hub.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	return nil
}

func openStore(cmd *cobra.Command, dataDir string) (data.Store, func(), error) {
	useDisk, _ := cmd.Flags().GetBool("store")
	if !useDisk {
		return store.NewMemStore(), func() {}, nil
	}
	disk, err := store.OpenDiskStore(dataDir + "/db")
	if err != nil {
		return nil, nil, fmt.Errorf("cascade: opening disk store: %w", err)
	}
	return disk, func() { _ = disk.Close() }, nil
}

func loadRoster(peersURL, dataDir string) (*peers.Roster, error) {
	base := dataDir
	if peersURL != "" {
		base = peersURL
	}
	return peers.NewJSONRoster(base).Load()
}
