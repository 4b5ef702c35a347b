// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Development switches to the human-readable console encoder and
	// debug level.
	Development bool
	// FilePath, when set, tees JSON output into a log file alongside the
	// console.
	FilePath string
}

// New builds a zap.Logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	core := consoleCore(cfg.Development)
	if cfg.FilePath == "" {
		return zap.New(core), nil
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(f),
		zapcore.InfoLevel,
	)
	return zap.New(zapcore.NewTee(core, fileCore)), nil
}

func consoleCore(development bool) zapcore.Core {
	if development {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			zapcore.DebugLevel,
		)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
}
