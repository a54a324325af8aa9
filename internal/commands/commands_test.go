package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colonyops/tick/internal/core/config"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/data/db"
	"github.com/colonyops/tick/internal/printer"
	"github.com/colonyops/tick/internal/tasklist"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func testFlags(t *testing.T, backend string) *Flags {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Storage.Backend = backend
	cfg.TUI.Watch = false

	return &Flags{
		DataDir:    dir,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Config:     &cfg,
		Logger:     zerolog.Nop(),
	}
}

// runCLI runs args against a fresh root command and returns stdout.
func runCLI(t *testing.T, flags *Flags, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, flags, "", args...)
}

func runCLIWithInput(t *testing.T, flags *Flags, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:                  "tick",
		Reader:                strings.NewReader(stdin),
		Writer:                &out,
		ErrWriter:             &out,
		ExitErrHandler:        func(context.Context, *cli.Command, error) {},
		EnableShellCompletion: true,
	}
	taskCmd := NewTaskCmd(flags)
	taskCmd.confirm = func(task.Task) (bool, error) { return false, nil }
	app = taskCmd.Register(app)
	app = NewConfigValidateCmd(flags).Register(app)

	ctx := printer.WithPrinter(context.Background(), printer.New(&out))
	err := app.Run(ctx, append([]string{"tick"}, args...))
	return out.String(), err
}

func decodeLines[T any](t *testing.T, out string) []T {
	t.Helper()

	var items []T
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var v T
		require.NoError(t, json.Unmarshal([]byte(line), &v), line)
		items = append(items, v)
	}
	return items
}

func TestTaskCmd_Lifecycle(t *testing.T) {
	for _, backend := range config.Backends() {
		t.Run(backend, func(t *testing.T) {
			flags := testFlags(t, backend)

			out, err := runCLI(t, flags, "task", "add", "Buy", "milk")
			require.NoError(t, err)
			added := decodeLines[task.Task](t, out)
			require.Len(t, added, 1)
			assert.Equal(t, "Buy milk", added[0].Text)
			assert.Equal(t, task.StatusPending, added[0].Status)

			_, err = runCLI(t, flags, "task", "add", "Walk dog")
			require.NoError(t, err)
			_, err = runCLI(t, flags, "task", "add", "Call mom")
			require.NoError(t, err)

			out, err = runCLI(t, flags, "task", "complete", "#2")
			require.NoError(t, err)
			done := decodeLines[task.Task](t, out)
			require.Len(t, done, 1)
			assert.Equal(t, "Walk dog", done[0].Text)
			assert.Equal(t, task.StatusCompleted, done[0].Status)

			out, err = runCLI(t, flags, "task", "cancel", added[0].ID[:8])
			require.NoError(t, err)
			assert.Equal(t, task.StatusCancelled, decodeLines[task.Task](t, out)[0].Status)

			out, err = runCLI(t, flags, "task", "list", "--status", "pending")
			require.NoError(t, err)
			pending := decodeLines[listedTask](t, out)
			require.Len(t, pending, 1)
			assert.Equal(t, 1, pending[0].Position)
			assert.Equal(t, "Call mom", pending[0].Text)

			// position refs count within the filter
			_, err = runCLI(t, flags, "task", "delete", "--status", "completed", "--yes", "#1")
			require.NoError(t, err)

			out, err = runCLI(t, flags, "task", "list")
			require.NoError(t, err)
			all := decodeLines[listedTask](t, out)
			require.Len(t, all, 2)
			assert.Equal(t, "Buy milk", all[0].Text)
			assert.Equal(t, "Call mom", all[1].Text)
			assert.Equal(t, 2, all[1].Position)
		})
	}
}

func TestTaskCmd_AddEmpty(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	_, err := runCLI(t, flags, "task", "add", "   ")
	require.ErrorContains(t, err, "cannot be empty")
}

func TestTaskCmd_TerminalStatus(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	_, err := runCLI(t, flags, "task", "add", "one")
	require.NoError(t, err)
	_, err = runCLI(t, flags, "task", "complete", "#1")
	require.NoError(t, err)

	_, err = runCLI(t, flags, "task", "cancel", "#1")
	require.ErrorIs(t, err, task.ErrTerminal)
}

func TestTaskCmd_BadRefs(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	_, err := runCLI(t, flags, "task", "add", "one")
	require.NoError(t, err)

	tests := []struct {
		name string
		ref  string
		is   error
	}{
		{name: "position past end", ref: "#5", is: task.ErrNotFound},
		{name: "unknown id", ref: "zzzz", is: task.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, flags, "task", "complete", tt.ref)
			require.ErrorIs(t, err, tt.is)
		})
	}

	_, err = runCLI(t, flags, "task", "complete", "#zero")
	require.ErrorContains(t, err, "invalid position")
}

func TestTaskCmd_DeleteDeclined(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	_, err := runCLI(t, flags, "task", "add", "keep me")
	require.NoError(t, err)

	out, err := runCLI(t, flags, "task", "delete", "#1")
	require.NoError(t, err)
	assert.Contains(t, out, `Kept "keep me"`)

	out, err = runCLI(t, flags, "task", "list")
	require.NoError(t, err)
	assert.Len(t, decodeLines[listedTask](t, out), 1)
}

func TestTaskCmd_Import(t *testing.T) {
	flags := testFlags(t, config.BackendJSONFile)

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`["one", "  ", "two"]`), 0o644))

	out, err := runCLI(t, flags, "task", "import", "-f", path)
	require.NoError(t, err)

	added := decodeLines[task.Task](t, out)
	require.Len(t, added, 2, "blank entries are skipped")
	assert.Equal(t, "one", added[0].Text)
	assert.Equal(t, "two", added[1].Text)
}

func TestTaskCmd_ImportStdin(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	out, err := runCLIWithInput(t, flags, `["from a pipe"]`, "task", "import")
	require.NoError(t, err)

	added := decodeLines[task.Task](t, out)
	require.Len(t, added, 1)
	assert.Equal(t, "from a pipe", added[0].Text)
}

func TestTaskCmd_CompletesRefs(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	out, err := runCLI(t, flags, "task", "add", "open one")
	require.NoError(t, err)
	open := decodeLines[task.Task](t, out)[0]

	out, err = runCLI(t, flags, "task", "add", "done one")
	require.NoError(t, err)
	done := decodeLines[task.Task](t, out)[0]

	_, err = runCLI(t, flags, "task", "complete", done.ID)
	require.NoError(t, err)

	out, err = runCLI(t, flags, "task", "complete", "--generate-shell-completion")
	require.NoError(t, err)
	assert.Equal(t, open.ShortID()+":open one\n", out, "only pending tasks complete")

	out, err = runCLI(t, flags, "task", "delete", "--generate-shell-completion")
	require.NoError(t, err)
	assert.Contains(t, out, open.ShortID()+":open one")
	assert.Contains(t, out, done.ShortID()+":done one")
}

func TestConfigValidate(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)

	out, err := runCLI(t, flags, "config", "validate", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)

	flags.Config.TUI.TimestampFormat = "static"
	out, err = runCLI(t, flags, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "tui.timestamp_format")
}

func TestOpenStorage_RecoversCorruptDatabase(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)
	dir := flags.Config.StorageDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	garbage := bytes.Repeat([]byte("not a database "), 512)
	require.NoError(t, os.WriteFile(filepath.Join(dir, db.FileName), garbage, 0o644))

	storage, err := OpenStorage(flags.Config, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	tasks, err := storage.Tasks.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	matches, err := filepath.Glob(filepath.Join(dir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches, "corrupt file is kept aside")
}

func TestStorage_SharedListKeepsBothWriters(t *testing.T) {
	for _, backend := range config.Backends() {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			flags := testFlags(t, backend)

			storage, err := OpenStorage(flags.Config, zerolog.Nop())
			require.NoError(t, err)
			defer func() { _ = storage.Close() }()

			tui := tasklist.New(storage.Tasks)
			require.NoError(t, tui.Load(ctx))
			mine, _, err := tui.Add(ctx, "from tui")
			require.NoError(t, err)

			_, err = runCLI(t, flags, "task", "add", "from cli")
			require.NoError(t, err)

			require.NoError(t, tui.SetStatus(ctx, mine.ID, task.StatusCompleted))

			stored, err := storage.Tasks.Load(ctx)
			require.NoError(t, err)
			require.Len(t, stored, 2)
			assert.Equal(t, task.StatusCompleted, stored[0].Status)
			assert.Equal(t, "from cli", stored[1].Text)
		})
	}
}

func TestTuiCmd_Options(t *testing.T) {
	flags := testFlags(t, config.BackendSQLite)
	flags.Config.TUI.Theme = "light"

	cmd := NewTuiCmd(flags)
	opts, err := cmd.options(flags.Config)
	require.NoError(t, err)
	assert.Equal(t, styles.ThemeLight, opts.Theme)
	assert.Empty(t, opts.Layout, "auto follows the terminal")

	cmd.theme = "dark"
	cmd.layout = "mobile"
	opts, err = cmd.options(flags.Config)
	require.NoError(t, err)
	assert.Equal(t, styles.ThemeDark, opts.Theme)
	assert.Equal(t, layout.Mobile, opts.Layout)

	cmd.layout = "watch"
	_, err = cmd.options(flags.Config)
	require.ErrorContains(t, err, "invalid layout")
}
