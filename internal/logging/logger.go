// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the process-wide logger. It starts as a no-op so packages can log
// before Execute runs, and is replaced by InitLogger and SetLogger.
var L = zap.NewNop()

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}

// InitLogger installs a production logger as L for bootstrap logging,
// before configuration has been read. Falls back to a no-op logger if the
// build fails, which only happens with an invalid encoder registration.
func InitLogger() {
	logger, err := New(false)
	if err != nil {
		L = zap.NewNop()
		return
	}
	SetLogger(logger)
}

// SetLogger replaces L and mirrors the logger into the zap globals so
// libraries using zap.L() agree with ours.
func SetLogger(logger *zap.Logger) {
	L = logger
	zap.ReplaceGlobals(logger)
}
