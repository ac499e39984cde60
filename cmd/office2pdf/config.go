// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pdiddy/office2pdf/internal/convert"
	"github.com/pdiddy/office2pdf/internal/history"
	"github.com/pdiddy/office2pdf/internal/install"
	"github.com/pdiddy/office2pdf/internal/logging"
	"github.com/pdiddy/office2pdf/pkg/types"
)

func setDefaults() {
	viper.SetDefault("output_dir", filepath.Join("~", "Desktop", "office2pdf"))
	viper.SetDefault("verify", true)
	viper.SetDefault("engine.force", "auto")
	viper.SetDefault("engine.soffice_path", "")
	viper.SetDefault("automation.leave_open", false)
	viper.SetDefault("headless.poll_attempts", 50)
	viper.SetDefault("headless.poll_interval", "100ms")
	viper.SetDefault("progress.startup_attempts", 30)
	viper.SetDefault("progress.startup_delay", "1ms")
	viper.SetDefault("progress.tick", "80ms")
	viper.SetDefault("progress.finish_delay", "20ms")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", filepath.Join("~", ".config", "office2pdf", "history.db"))
	viper.SetDefault("installer.url", install.DefaultURL)
	viper.SetDefault("installer.dir", "")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.file", "")
}

// loadConfig decodes the merged flag, environment, file, and default
// settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.Installer.Dir = expandHome(cfg.Installer.Dir)
	cfg.Engine.SofficePath = expandHome(cfg.Engine.SofficePath)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// setup loads the configuration and builds the logger. Logs go to stderr
// unless a log file is configured or defaultLogFile is non-empty.
func setup(defaultLogFile string) (types.Config, *logrus.Logger, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	logger, closeLog, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

// openHistory opens the conversion journal when it is enabled. A journal
// that cannot be opened is logged and skipped; conversions still run.
func openHistory(cfg types.Config, logger *logrus.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		logger.WithError(err).Warn("Conversion history disabled")
		return nil
	}
	return store
}

// recordFunc returns a hook that journals each conversion in store.
func recordFunc(store *history.Store, logger *logrus.Logger) func(types.Request, types.Result, error) {
	return func(req types.Request, res types.Result, convErr error) {
		if dt, err := convert.Classify(req.SourcePath); err == nil {
			req.DocType = dt
		}
		if err := store.Record(context.Background(), history.NewEntry(req, res, convErr)); err != nil {
			logger.WithError(err).Warn("Could not record conversion")
		}
	}
}
