package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and the timestamp layout. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("tui.timestamp_format", c.TUI.TimestampFormat, isTimeLayout),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "max_idle_conns",
			Message:  fmt.Sprintf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.Database.MaxIdleConns, c.Database.MaxOpenConns),
		})
	}

	if c.Storage.Backend == BackendJSONFile && c.Database != DefaultConfig().Database {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "database",
			Message:  "database settings have no effect with the jsonfile backend",
		})
	}

	if c.TUI.DeleteDelay > 2*time.Second {
		warnings = append(warnings, ValidationWarning{
			Category: "TUI",
			Item:     "delete_delay",
			Message:  fmt.Sprintf("delete_delay of %s keeps deleted rows on screen for a long time", c.TUI.DeleteDelay),
		})
	}

	return warnings
}

// validateFileAccess checks the config file, data directory and storage path.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("storage.path", c.Storage.Path, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// referenceTime has a distinct value in every layout field.
var referenceTime = time.Date(2009, time.November, 10, 23, 4, 5, 0, time.UTC)

// isTimeLayout rejects layouts that contain no time element, which would
// stamp every task with the same literal text.
func isTimeLayout(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("cannot be empty")
	}
	if referenceTime.Format(layout) == layout {
		return fmt.Errorf("%q contains no time elements", layout)
	}
	return nil
}
