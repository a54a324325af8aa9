package initcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/tick/internal/core/config"
	"github.com/colonyops/tick/internal/printer"
	"github.com/hay-kot/criterio"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
	Preset     ConfigOptions
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				p.Infof("Init cancelled")
				return nil
			}
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.defaults()
	if !w.opts.Yes {
		if err := w.promptUser(&answers); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				p.Infof("Init cancelled")
				return nil
			}
			return err
		}
	}

	cfg := GenerateConfig(answers)
	cfg.DataDir = w.opts.DataDir
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid choices: %w", err)
	}

	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	p.Printf("")
	p.Section("Checks")
	if err := cfg.ValidateDeep(w.opts.ConfigPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				p.Errorf("%s: %v", fe.Field, fe.Err)
			}
		} else {
			p.Errorf("%v", err)
		}
	} else {
		p.Successf("Configuration is valid")
	}
	for _, warn := range cfg.Warnings() {
		p.Warnf("%s: %s", warn.Category, warn.Message)
	}

	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'tick' to open your task list")
	p.Printf("  2. Run 'tick task add <text>' to add tasks from the shell")

	return nil
}

func (w *Wizard) defaults() ConfigOptions {
	def := config.DefaultConfig()
	out := ConfigOptions{
		Backend: def.Storage.Backend,
		Theme:   def.TUI.Theme,
		Layout:  def.TUI.Layout,
	}
	if w.opts.Preset.Backend != "" {
		out.Backend = w.opts.Preset.Backend
	}
	if w.opts.Preset.Theme != "" {
		out.Theme = w.opts.Preset.Theme
	}
	if w.opts.Preset.Layout != "" {
		out.Layout = w.opts.Preset.Layout
	}
	return out
}

func (w *Wizard) promptUser(answers *ConfigOptions) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Storage backend").
			Description("sqlite keeps tasks in a database; jsonfile keeps a plain JSON document").
			Options(huh.NewOptions(config.Backends()...)...).
			Value(&answers.Backend),
		huh.NewSelect[string]().
			Title("Theme").
			Options(huh.NewOptions(config.Themes()...)...).
			Value(&answers.Theme),
		huh.NewSelect[string]().
			Title("Layout").
			Description("auto follows the terminal width").
			Options(huh.NewOptions(config.Layouts()...)...).
			Value(&answers.Layout),
	))
	return form.Run()
}
