// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the logrus logger shared by the office2pdf
// packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// ParseLevel converts a level name to a logrus level. Empty and unknown
// names yield WarnLevel.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.WarnLevel
	}
}

// New builds a logger from cfg. Output goes to cfg.File when set, appending,
// and to fallback otherwise. The returned close func releases the file and
// is safe to call when no file was opened.
func New(cfg types.LogConfig, fallback io.Writer) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	logger.SetLevel(ParseLevel(cfg.Level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if cfg.File == "" {
		if fallback == nil {
			fallback = os.Stderr
		}
		logger.SetOutput(fallback)
		return logger, func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

// Discard returns a logger that writes nowhere. Packages use it when the
// caller passes a nil logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
