//go:build dev
// +build dev

package logger

import (
	"fmt"

	"go.uber.org/zap"
)

func newConfig() zap.Config {
	return zap.NewDevelopmentConfig()
}

func HandleError(err error) {
	fmt.Printf("Dev Mode - Error: %+v\n", err)
	current.Error("error", zap.Error(err))
}
