package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current = zap.NewNop()

// New builds a logger at the given level ("debug", "info", "warn", "error")
// and makes it the one HandleError reports to.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := newConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	current = l
	return l, nil
}

// L returns the logger built by the last call to New
func L() *zap.Logger {
	return current
}
