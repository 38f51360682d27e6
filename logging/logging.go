// Package logging builds the zap logger from configuration.
package logging

import (
	"fmt"

	"choopy/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output selects where log records go.
type Output int

const (
	// Stderr is used by one-shot commands.
	Stderr Output = iota
	// File is used while the terminal owns the screen; records go to the
	// configured file and are dropped when none is set.
	File
)

// New builds a production logger at the configured level. verbose forces
// debug level.
func New(cfg config.LogConfig, verbose bool, out Output) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if out == File {
		if cfg.File == "" {
			return zap.NewNop(), nil
		}
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
