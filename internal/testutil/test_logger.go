// Package testutil adapts the teacher's common.NewTestLogger so package
// tests can get a *logrus.Logger that writes through testing.T.Log instead
// of stdout.
package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
)

type testLoggerAdapter struct {
	t *testing.T
}

func (a *testLoggerAdapter) Write(d []byte) (int, error) {
	if len(d) > 0 && d[len(d)-1] == '\n' {
		d = d[:len(d)-1]
	}
	a.t.Log(string(d))
	return len(d), nil
}

// NewTestLogger returns a logrus.Logger whose output is routed to t.Log, so
// it is only shown for failed tests.
func NewTestLogger(t *testing.T) *logrus.Logger {
	logger := logrus.New()
	logger.Out = &testLoggerAdapter{t: t}
	logger.Level = logrus.DebugLevel
	return logger
}
