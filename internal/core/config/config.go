// Package config handles configuration loading and validation for tick.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
)

// LayoutAuto derives the layout mode from the terminal width.
const LayoutAuto = "auto"

// Config holds the application configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite or jsonfile
	Path    string `yaml:"path"`    // overrides the backend's default location
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// TUIConfig holds terminal UI preferences.
type TUIConfig struct {
	Theme           string        `yaml:"theme"`            // dark or light
	Layout          string        `yaml:"layout"`           // auto, desktop, tablet or mobile
	CellWidth       int           `yaml:"cell_width"`       // viewport units per terminal column
	DeleteDelay     time.Duration `yaml:"delete_delay"`     // exit cue length; 0 deletes immediately
	TimestampFormat string        `yaml:"timestamp_format"` // Go time layout for creation stamps
	Watch           bool          `yaml:"watch"`            // reload when another process writes
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		TUI: TUIConfig{
			Theme:           "dark",
			Layout:          LayoutAuto,
			CellWidth:       8,
			DeleteDelay:     300 * time.Millisecond,
			TimestampFormat: "1/2/2006, 3:04:05 PM",
			Watch:           true,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// DeleteDelay and Watch are left alone: their zero values are meaningful.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Layout == "" {
		c.TUI.Layout = defaults.TUI.Layout
	}
	if c.TUI.CellWidth == 0 {
		c.TUI.CellWidth = defaults.TUI.CellWidth
	}
	if c.TUI.TimestampFormat == "" {
		c.TUI.TimestampFormat = defaults.TUI.TimestampFormat
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !slices.Contains(Backends(), c.Storage.Backend) {
		return fmt.Errorf("storage.backend %q must be one of %v", c.Storage.Backend, Backends())
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if !slices.Contains(Themes(), c.TUI.Theme) {
		return fmt.Errorf("tui.theme %q must be one of %v", c.TUI.Theme, Themes())
	}
	if !slices.Contains(Layouts(), c.TUI.Layout) {
		return fmt.Errorf("tui.layout %q must be one of %v", c.TUI.Layout, Layouts())
	}
	if c.TUI.CellWidth < 1 {
		return fmt.Errorf("tui.cell_width must be at least 1")
	}
	if c.TUI.DeleteDelay < 0 {
		return fmt.Errorf("tui.delete_delay cannot be negative")
	}

	return nil
}

// Backends lists the supported storage backends.
func Backends() []string {
	return []string{BackendSQLite, BackendJSONFile}
}

// Themes lists the accepted tui.theme values.
func Themes() []string {
	return []string{"dark", "light"}
}

// Layouts lists the accepted tui.layout values.
func Layouts() []string {
	return []string{LayoutAuto, "desktop", "tablet", "mobile"}
}

// StorageDir returns the directory holding the task list for the configured
// backend.
func (c *Config) StorageDir() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendJSONFile {
		return filepath.Join(c.DataDir, "store")
	}
	return c.DataDir
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "tick.log")
}
