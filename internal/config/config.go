// Package config loads probekit's YAML configuration. All fields have
// documented defaults; unknown keys in the file are rejected at load so
// typos surface before anything runs.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/internal/format"
)

// Config is the top-level configuration.
type Config struct {
	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `yaml:"log_level"`

	// Output selects the default report formatter. Default: "text".
	Output string `yaml:"output"`

	// MinVersion, when set, is the minimum probekit version this
	// configuration was written for (doctor flags a mismatch).
	MinVersion string `yaml:"min_version"`

	// History configures the run-history store.
	History HistoryConfig `yaml:"history"`

	// Checks configures the built-in checks.
	Checks ChecksConfig `yaml:"checks"`
}

// HistoryConfig controls persistence of aggregated check passes.
type HistoryConfig struct {
	// Enabled turns on recording of every pass. Default: false.
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file. Default: ".probekit/history.db".
	Path string `yaml:"path"`
}

// ChecksConfig holds per-check settings for the built-in checks.
type ChecksConfig struct {
	Disk     DiskCheckConfig     `yaml:"disk"`
	Database DatabaseCheckConfig `yaml:"database"`
	Service  ServiceCheckConfig  `yaml:"service"`
}

// DiskCheckConfig configures the disk usage check.
type DiskCheckConfig struct {
	// Enabled includes the check in default passes. Default: true.
	Enabled bool `yaml:"enabled"`

	// Path is the filesystem path whose volume is examined. Default: ".".
	Path string `yaml:"path"`

	// WarnPercent is the used-space percentage above which the check
	// reports unhealthy. Default: 90.
	WarnPercent float64 `yaml:"warn_percent"`
}

// DatabaseCheckConfig configures the database connectivity check.
type DatabaseCheckConfig struct {
	// Enabled includes the check in default passes. Default: false
	// (there is no database to probe until one is configured).
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file to ping.
	Path string `yaml:"path"`
}

// ServiceCheckConfig configures the self-service check.
type ServiceCheckConfig struct {
	// Enabled includes the check in default passes. Default: true.
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Output:   format.KindText,
		History: HistoryConfig{
			Enabled: false,
			Path:    ".probekit/history.db",
		},
		Checks: ChecksConfig{
			Disk: DiskCheckConfig{
				Enabled:     true,
				Path:        ".",
				WarnPercent: 90,
			},
			Database: DatabaseCheckConfig{
				Enabled: false,
			},
			Service: ServiceCheckConfig{
				Enabled: true,
			},
		},
	}
}

// Load reads path, layering the file over Default. Unknown keys and
// invalid field values are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed domain.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := format.New(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Checks.Disk.WarnPercent < 0 || c.Checks.Disk.WarnPercent > 100 {
		return fmt.Errorf("checks.disk.warn_percent must be between 0 and 100, got %v",
			c.Checks.Disk.WarnPercent)
	}
	if c.Checks.Database.Enabled && c.Checks.Database.Path == "" {
		return fmt.Errorf("checks.database.path is required when the database check is enabled")
	}
	return nil
}
