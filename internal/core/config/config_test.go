package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", "/tmp/tick")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 300*time.Millisecond, cfg.TUI.DeleteDelay)
	assert.True(t, cfg.TUI.Watch)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: jsonfile
tui:
  theme: light
  layout: mobile
  delete_delay: 0s
  watch: false
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, "light", cfg.TUI.Theme)
	assert.Equal(t, "mobile", cfg.TUI.Layout)
	assert.Equal(t, time.Duration(0), cfg.TUI.DeleteDelay, "explicit zero delay is kept")
	assert.False(t, cfg.TUI.Watch)
	assert.Equal(t, 8, cfg.TUI.CellWidth, "unset values fall back to defaults")
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "tui: [not, a, map")

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data directory"},
		{name: "bad backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: "storage.backend"},
		{name: "bad theme", mutate: func(c *Config) { c.TUI.Theme = "sepia" }, wantErr: "tui.theme"},
		{name: "bad layout", mutate: func(c *Config) { c.TUI.Layout = "watch" }, wantErr: "tui.layout"},
		{name: "zero cell width", mutate: func(c *Config) { c.TUI.CellWidth = 0 }, wantErr: "tui.cell_width"},
		{name: "negative delay", mutate: func(c *Config) { c.TUI.DeleteDelay = -time.Second }, wantErr: "tui.delete_delay"},
		{name: "no connections", mutate: func(c *Config) { c.Database.MaxOpenConns = 0 }, wantErr: "max_open_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/data"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStorageDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, "/data", cfg.StorageDir())

	cfg.Storage.Backend = BackendJSONFile
	assert.Equal(t, filepath.Join("/data", "store"), cfg.StorageDir())

	cfg.Storage.Path = "/elsewhere"
	assert.Equal(t, "/elsewhere", cfg.StorageDir())
}
