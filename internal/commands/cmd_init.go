package commands

import (
	"context"

	initcmd "github.com/colonyops/tick/internal/commands/init"
	"github.com/urfave/cli/v3"
)

type InitCmd struct {
	flags   *Flags
	yes     bool
	force   bool
	backend string
	theme   string
	layout  string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a tick configuration file with an interactive wizard",
		UsageText: "tick init [options]",
		Description: `Generates ~/.config/tick/config.yaml (or --config) with the chosen
storage backend, theme and layout, then validates it.

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "storage backend (sqlite, jsonfile)",
				Destination: &cmd.backend,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme (dark, light)",
				Destination: &cmd.theme,
			},
			&cli.StringFlag{
				Name:        "layout",
				Usage:       "layout mode (auto, desktop, tablet, mobile)",
				Destination: &cmd.layout,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Preset: initcmd.ConfigOptions{
			Backend: cmd.backend,
			Theme:   cmd.theme,
			Layout:  cmd.layout,
		},
	})
	return wizard.Run(ctx)
}
