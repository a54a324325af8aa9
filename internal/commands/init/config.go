package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/tick/internal/core/config"
	"gopkg.in/yaml.v3"
)

// ConfigOptions are the wizard's answers.
type ConfigOptions struct {
	Backend string
	Theme   string
	Layout  string
}

// GenerateConfig returns the default config with the chosen options applied.
func GenerateConfig(opts ConfigOptions) config.Config {
	cfg := config.DefaultConfig()
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	if opts.Theme != "" {
		cfg.TUI.Theme = opts.Theme
	}
	if opts.Layout != "" {
		cfg.TUI.Layout = opts.Layout
	}
	return cfg
}

// WriteConfig writes cfg as YAML, creating parent directories.
func WriteConfig(cfg config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	header := []byte("# tick configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
