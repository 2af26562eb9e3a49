// Package logging builds the structured logger used by the consensus
// engine and the cascade command (which hands it on to the gossip glue),
// the way the teacher's
// node.DefaultConfig wires up logrus for a Babble node.
package logging

import (
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// New returns a logrus.Logger configured with the prefixed text formatter
// used throughout the teacher's node/ package. If errorLogPath is non-empty,
// an lfshook.LfsHook additionally routes Error-and-above entries to that
// file, independently of wherever the main logger is writing.
func New(level logrus.Level, errorLogPath string) *logrus.Logger {
	logger := logrus.New()
	logger.Level = level
	logger.Formatter = &prefixed.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "15:04:05.000",
		FullTimestamp:   true,
	}

	if errorLogPath != "" {
		pathMap := lfshook.PathMap{
			logrus.ErrorLevel: errorLogPath,
			logrus.FatalLevel: errorLogPath,
			logrus.PanicLevel: errorLogPath,
		}
		logger.Hooks.Add(lfshook.NewHook(pathMap, &logrus.JSONFormatter{}))
	}

	return logger
}

// Default is a convenience constructor matching the teacher's
// node.DefaultConfig logger: debug level, no side file.
func Default() *logrus.Logger {
	return New(logrus.DebugLevel, "")
}

// WithComponent returns an Entry tagged the way node.Core tags its logger
// with the owning peer's id ("component" here plays that role for the
// pieces of the system that are not peers themselves: store, gossip hub).
func WithComponent(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}
