package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the data directory
const FileName = "prompttree.log"

// New builds a JSON logger appending to <dataDir>/prompttree.log. The TUI
// owns the terminal, so nothing is written to stdout or stderr.
func New(dataDir, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{filepath.Join(dataDir, FileName)}
	cfg.ErrorOutputPaths = []string{filepath.Join(dataDir, FileName)}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	return cfg.Build()
}

// NewOrNop is New falling back to a no-op logger when the file cannot be opened
func NewOrNop(dataDir, level string) *zap.Logger {
	logger, err := New(dataDir, level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
