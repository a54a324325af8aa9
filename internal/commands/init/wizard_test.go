package initcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/tick/internal/core/config"
	"github.com/colonyops/tick/internal/printer"
	"github.com/colonyops/tick/pkg/tuitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := GenerateConfig(ConfigOptions{Backend: config.BackendJSONFile, Theme: "light", Layout: "mobile"})
	require.NoError(t, WriteConfig(cfg, path))

	loaded, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, config.BackendJSONFile, loaded.Storage.Backend)
	assert.Equal(t, "light", loaded.TUI.Theme)
	assert.Equal(t, "mobile", loaded.TUI.Layout)
	assert.Equal(t, config.DefaultConfig().TUI.DeleteDelay, loaded.TUI.DeleteDelay)
	assert.True(t, loaded.TUI.Watch)
}

func TestBackupConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	backup, err := BackupConfig(path)
	require.NoError(t, err)
	assert.Empty(t, backup, "nothing to back up")

	require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: light\n"), 0o644))
	backup, err = BackupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "tui:\n  theme: light\n", string(data))
}

func TestWizard_RunWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var buf bytes.Buffer
	ctx := printer.WithPrinter(context.Background(), printer.New(&buf))

	w := NewWizard(WizardOptions{
		ConfigPath: path,
		DataDir:    dir,
		Yes:        true,
		Preset:     ConfigOptions{Theme: "light"},
	})
	require.NoError(t, w.Run(ctx))

	assert.True(t, ConfigExists(path))
	loaded, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.TUI.Theme)
	assert.Equal(t, config.BackendSQLite, loaded.Storage.Backend)

	out := tuitest.StripANSI(buf.String())
	assert.Contains(t, out, "Created config: "+path)
	assert.Contains(t, out, "Configuration is valid")
}

func TestWizard_RefusesOverwriteWithYes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	w := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true})
	err := w.Run(context.Background())
	require.ErrorContains(t, err, "use --force")
}

func TestWizard_ForceBacksUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	var buf bytes.Buffer
	ctx := printer.WithPrinter(context.Background(), printer.New(&buf))

	w := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true, Force: true})
	require.NoError(t, w.Run(ctx))

	assert.FileExists(t, path+".bak")
	assert.Contains(t, tuitest.StripANSI(buf.String()), "Backed up config to")
}

func TestWizard_InvalidPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true, Preset: ConfigOptions{Theme: "neon"}})
	err := w.Run(context.Background())
	require.ErrorContains(t, err, "tui.theme")
	assert.False(t, ConfigExists(path))
}
