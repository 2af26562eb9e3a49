// Package config holds the runtime settings for a cascade node, adapted
// from the teacher's node.Config: the same shape (timers, cache sizing, a
// DB path, a logger), generalized to belief-merge's gossip cadence and
// fanout instead of hashgraph's sync interval.
package config

import (
	"io/ioutil"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is one node's tunables, set from CLI flags in cmd/cascade and
// passed down into the gossip.Hub and consensus.Peer it wires together.
type Config struct {
	// BindAddr is the WAMP router address this node serves on.
	BindAddr string `mapstructure:"listen"`
	// DataDir holds the node's persisted key pair, badger store, and
	// peers.json roster.
	DataDir string
	// GossipHeartbeat is the period between push rounds; zero disables
	// periodic gossip entirely, so a push happens only when Hub.PushNow is
	// called.
	GossipHeartbeat time.Duration `mapstructure:"heartbeat"`
	// GossipFanout caps how many peers a single push round reaches.
	GossipFanout int `mapstructure:"fanout"`
	// CacheSize bounds in-memory LRU caches sized off of it (none yet
	// wired, carried forward from the teacher for a future cache layer).
	CacheSize int
	Logger    *logrus.Logger
}

// DefaultConfig returns a Config suitable for local experimentation: a
// throwaway badger directory, debug logging, a one-second heartbeat.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	dataDir, _ := ioutil.TempDir("", "cascade")

	return &Config{
		BindAddr:        "127.0.0.1:1337",
		DataDir:         dataDir,
		GossipHeartbeat: time.Second,
		GossipFanout:    3,
		CacheSize:       500,
		Logger:          logger,
	}
}
