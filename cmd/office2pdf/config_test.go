// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/office2pdf/internal/install"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "Desktop", "office2pdf"), expandHome("~/Desktop/office2pdf"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
	assert.Equal(t, "", expandHome(""))
}

func TestLoadConfigDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Desktop", "office2pdf"), cfg.OutputDir)
	assert.True(t, cfg.Verify)
	assert.Equal(t, "auto", cfg.Engine.Force)
	assert.False(t, cfg.Automation.LeaveOpen)
	assert.Equal(t, 50, cfg.Headless.PollAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Headless.PollInterval)
	assert.Equal(t, 30, cfg.Progress.StartupAttempts)
	assert.Equal(t, 80*time.Millisecond, cfg.Progress.Tick)
	assert.Equal(t, 20*time.Millisecond, cfg.Progress.FinishDelay)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(home, ".config", "office2pdf", "history.db"), cfg.History.Path)
	assert.Equal(t, install.DefaultURL, cfg.Installer.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigOverride(t *testing.T) {
	viper.Set("headless.poll_interval", "250ms")
	viper.Set("engine.force", "libreoffice")
	t.Cleanup(func() {
		viper.Set("headless.poll_interval", "100ms")
		viper.Set("engine.force", "auto")
	})

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Headless.PollInterval)
	assert.Equal(t, "libreoffice", cfg.Engine.Force)
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"convert", "engines", "install", "history", "ui", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
