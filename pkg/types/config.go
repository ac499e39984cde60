// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EngineConfig controls engine detection.
type EngineConfig struct {
	// Force restricts probing to one engine: auto, msoffice, wps, or libreoffice.
	Force string `json:"force" yaml:"force" mapstructure:"force"`

	// SofficePath is an explicit soffice executable, tried before PATH,
	// the registry, and the well-known install locations.
	SofficePath string `json:"soffice_path,omitempty" yaml:"soffice_path,omitempty" mapstructure:"soffice_path"`
}

// AutomationConfig holds settings for the COM-driven suites.
type AutomationConfig struct {
	// LeaveOpen keeps the suite application running after a conversion
	// instead of closing the document and quitting the application.
	LeaveOpen bool `json:"leave_open" yaml:"leave_open" mapstructure:"leave_open"`
}

// HeadlessConfig holds settings for the soffice backend.
type HeadlessConfig struct {
	// PollAttempts is how many times the output file is checked after
	// soffice exits successfully (default 50).
	PollAttempts int `json:"poll_attempts" yaml:"poll_attempts" mapstructure:"poll_attempts"`

	// PollInterval is the delay between output-file checks (default 100ms).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`
}

// ProgressConfig shapes the synthetic progress ramp.
type ProgressConfig struct {
	// StartupAttempts is the number of warm-up retries in the 0-30 phase.
	StartupAttempts int `json:"startup_attempts" yaml:"startup_attempts" mapstructure:"startup_attempts"`

	// StartupDelay is the pause after a failed warm-up attempt.
	StartupDelay time.Duration `json:"startup_delay" yaml:"startup_delay" mapstructure:"startup_delay"`

	// Tick is the cadence of the 30-96 conversion phase.
	Tick time.Duration `json:"tick" yaml:"tick" mapstructure:"tick"`

	// FinishDelay is the cadence of the 96-100 finalization phase.
	FinishDelay time.Duration `json:"finish_delay" yaml:"finish_delay" mapstructure:"finish_delay"`
}

// HistoryConfig controls the conversion journal.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// InstallerConfig locates the LibreOffice installer package.
type InstallerConfig struct {
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Dir is where the package is downloaded. Empty means the OS temp dir.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups every setting of the tool.
type Config struct {
	OutputDir  string           `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	Verify     bool             `json:"verify" yaml:"verify" mapstructure:"verify"`
	Engine     EngineConfig     `json:"engine" yaml:"engine" mapstructure:"engine"`
	Automation AutomationConfig `json:"automation" yaml:"automation" mapstructure:"automation"`
	Headless   HeadlessConfig   `json:"headless" yaml:"headless" mapstructure:"headless"`
	Progress   ProgressConfig   `json:"progress" yaml:"progress" mapstructure:"progress"`
	History    HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
	Installer  InstallerConfig  `json:"installer" yaml:"installer" mapstructure:"installer"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
