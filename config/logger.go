// ABOUTME: Structured logger construction from config
// ABOUTME: Production zap logger on stderr or a file at the configured level
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return l, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// NewLogger builds the diagnostics logger. User-facing output never goes
// through it.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{c.Log.File}
		cfg.ErrorOutputPaths = []string{c.Log.File}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(AppName), nil
}

// NewInteractiveLogger is NewLogger for full-screen surfaces: without a log
// file it discards output so the terminal stays clean.
func (c *Config) NewInteractiveLogger() (*zap.Logger, error) {
	if c.Log.File == "" {
		return zap.NewNop(), nil
	}
	return c.NewLogger()
}
