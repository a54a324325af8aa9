package commands

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/tick/internal/core/config"
	"github.com/colonyops/tick/internal/core/layout"
	"github.com/colonyops/tick/internal/core/styles"
	"github.com/colonyops/tick/internal/data/stores"
	"github.com/colonyops/tick/internal/tasklist"
	"github.com/colonyops/tick/internal/tui"
	"github.com/colonyops/tick/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags

	theme  string
	layout string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "theme",
			Usage:       "color theme (dark, light); overrides config and the remembered theme",
			Sources:     cli.EnvVars("TICK_THEME"),
			Destination: &cmd.theme,
		},
		&cli.StringFlag{
			Name:        "layout",
			Usage:       "layout mode (auto, desktop, tablet, mobile)",
			Sources:     cli.EnvVars("TICK_LAYOUT"),
			Destination: &cmd.layout,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("TICK_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	log := cmd.flags.Logger

	opts, err := cmd.options(cfg)
	if err != nil {
		return err
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort, log)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	storage, err := OpenStorage(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	storage.StartSweep(ctx, log)

	var program atomic.Pointer[tea.Program]

	store := tasklist.New(storage.Tasks,
		tasklist.WithTimestampLayout(cfg.TUI.TimestampFormat),
		tasklist.WithLogger(log),
		tasklist.WithOnChange(func() {
			if p := program.Load(); p != nil {
				// Send blocks until the program reads it; mutations run inside Update.
				go p.Send(tui.Changed())
			}
		}),
	)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	if state, ok := storage.UIState.Load(ctx); ok && cmd.theme == "" && state.Theme != "" {
		if th, err := styles.ParseTheme(state.Theme); err == nil {
			opts.Theme = th
		}
	}

	if cfg.TUI.Watch {
		opts.Watcher = storage.Tasks
	}

	m := tui.New(ctx, store, opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	program.Store(p)

	finalModel, err := p.Run()
	program.Store(nil)
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	final, ok := finalModel.(tui.Model)
	if !ok {
		return nil
	}

	state := stores.UIState{Theme: string(final.Theme())}
	if err := storage.UIState.Save(context.WithoutCancel(ctx), state); err != nil {
		log.Warn().Err(err).Msg("failed to remember ui state")
	}

	return nil
}

// options resolves TUI options from config and flags. Flags win.
func (cmd *TuiCmd) options(cfg *config.Config) (tui.Options, error) {
	opts := tui.Options{
		CellWidth:   cfg.TUI.CellWidth,
		DeleteDelay: cfg.TUI.DeleteDelay,
		Logger:      cmd.flags.Logger,
	}

	themeName := cfg.TUI.Theme
	if cmd.theme != "" {
		themeName = cmd.theme
	}
	th, err := styles.ParseTheme(themeName)
	if err != nil {
		return opts, fmt.Errorf("invalid theme: %w", err)
	}
	opts.Theme = th

	layoutName := cfg.TUI.Layout
	if cmd.layout != "" {
		layoutName = cmd.layout
	}
	if layoutName != config.LayoutAuto && layoutName != "" {
		mode, err := layout.ParseMode(layoutName)
		if err != nil {
			return opts, fmt.Errorf("invalid layout: %w", err)
		}
		opts.Layout = mode
	}

	return opts, nil
}
