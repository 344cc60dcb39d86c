// Package loggertest provides a Logger that writes to the test output.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/asdscreen/asd-screening-api/internal/logger"
)

// New creates a Logger bound to t
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
