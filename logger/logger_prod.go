//go:build !dev
// +build !dev

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func HandleError(err error) {
	current.Error("error", zap.Error(err))
}
