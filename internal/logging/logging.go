// SPDX-License-Identifier: MPL-2.0

// Package logging builds the application logger. The builder TUI owns the
// terminal while it runs, so logs go to a rotating file rather than stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrcribb/trogon/internal/config"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a structured logger writing to the configured rotating log
// file. When the file cannot be resolved the logger discards output rather
// than fighting the TUI for the terminal.
func New(cfg config.LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer
	path, err := resolveFile(cfg.File)
	if err != nil {
		w = io.Discard
	} else {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          config.AppName,
	})
	return logger
}

// resolveFile picks the log file path, defaulting to the per-user cache
// directory, and ensures its parent directory exists.
func resolveFile(configured string) (string, error) {
	path := configured
	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		path = filepath.Join(cacheDir, config.AppName, config.AppName+".log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return path, nil
}
