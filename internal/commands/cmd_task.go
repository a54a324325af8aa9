package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/tick/internal/core/logging"
	"github.com/colonyops/tick/internal/core/task"
	"github.com/colonyops/tick/internal/printer"
	"github.com/colonyops/tick/internal/tasklist"
	"github.com/colonyops/tick/pkg/iojson"
)

// TaskCmd implements the tick task command group.
type TaskCmd struct {
	flags *Flags

	// list and ref resolution
	status string

	// delete flags
	yes bool

	importReader iojson.FileReader[[]string]

	// confirm asks before deleting. Replaced in tests.
	confirm func(t task.Task) (bool, error)
}

// listedTask is one line of task list output.
type listedTask struct {
	Position int `json:"position"`
	task.Task
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags) *TaskCmd {
	cmd := &TaskCmd{flags: flags}
	cmd.confirm = cmd.confirmDelete
	return cmd
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage tasks from the shell",
		Description: `Task commands operate on the same list the TUI shows.

A task reference is a full id, a unique id prefix, or #N for the N-th task
(1-based) in the --status filter.

Examples:
  tick task add Buy milk                # add a pending task
  tick task list --status pending       # JSON lines with positions
  tick task complete '#1'               # complete the first task
  tick task cancel 3f2a                 # cancel by id prefix
  tick task delete '#2' --yes           # delete without confirmation
  echo '["a","b"]' | tick task import   # add several tasks`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
			cmd.statusCmd("complete", task.StatusCompleted),
			cmd.statusCmd("cancel", task.StatusCancelled),
			cmd.deleteCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *TaskCmd) statusFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "status",
		Aliases:     []string{"s"},
		Usage:       "filter (all, pending, completed, cancelled)",
		Destination: &cmd.status,
	}
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a pending task",
		UsageText: "tick task add <text...>",
		Action:    cmd.runAdd,
	}
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks as JSON lines",
		UsageText: "tick task list [--status <status>]",
		Flags:     []cli.Flag{cmd.statusFlag()},
		Action:    cmd.runList,
	}
}

func (cmd *TaskCmd) statusCmd(name string, status task.Status) *cli.Command {
	return &cli.Command{
		Name:          name,
		Usage:         fmt.Sprintf("Mark a pending task %s", status),
		UsageText:     fmt.Sprintf("tick task %s <ref>", name),
		Flags:         []cli.Flag{cmd.statusFlag()},
		ShellComplete: cmd.taskRefCompleter(isPending),
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.runSetStatus(ctx, c, status)
		},
	}
}

func (cmd *TaskCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:          "delete",
		Aliases:       []string{"rm"},
		Usage:         "Delete a task",
		UsageText:     "tick task delete <ref> [--yes]",
		ShellComplete: cmd.taskRefCompleter(anyTask),
		Flags: []cli.Flag{
			cmd.statusFlag(),
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip confirmation",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.runDelete,
	}
}

func (cmd *TaskCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Add tasks from a JSON array of strings",
		UsageText: "tick task import [-f file.json]",
		Flags:     []cli.Flag{cmd.importReader.Flag()},
		Action:    cmd.runImport,
	}
}

// open loads the task list. The returned func releases the backend.
func (cmd *TaskCmd) open(ctx context.Context) (context.Context, *tasklist.Store, func(), error) {
	storage, err := OpenStorage(cmd.flags.Config, cmd.flags.Logger)
	if err != nil {
		return ctx, nil, nil, err
	}
	closeFn := func() {
		if err := storage.Close(); err != nil {
			cmd.flags.Logger.Error().Err(err).Msg("failed to close storage")
		}
	}

	store := tasklist.New(storage.Tasks,
		tasklist.WithTimestampLayout(cmd.flags.Config.TUI.TimestampFormat),
		tasklist.WithLogger(cmd.flags.Logger),
	)

	ctx = logging.WithSource(ctx, logging.SourceCLI)
	if err := store.Load(ctx); err != nil {
		closeFn()
		return ctx, nil, nil, fmt.Errorf("load tasks: %w", err)
	}

	return ctx, store, closeFn, nil
}

func (cmd *TaskCmd) filter() (task.Filter, error) {
	return task.ParseFilter(cmd.status)
}

// resolve finds a task by id, id prefix, or #N within the status filter.
func (cmd *TaskCmd) resolve(store *tasklist.Store, ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, errors.New("missing task reference")
	}

	if pos, ok := strings.CutPrefix(ref, "#"); ok {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 1 {
			return task.Task{}, fmt.Errorf("invalid position %q", ref)
		}
		f, err := cmd.filter()
		if err != nil {
			return task.Task{}, err
		}
		t, ok := store.Resolve(f, n-1)
		if !ok {
			return task.Task{}, fmt.Errorf("%w: no task at %s in %s", task.ErrNotFound, ref, f)
		}
		return t, nil
	}

	return store.Lookup(ref)
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	text := strings.Join(c.Args().Slice(), " ")

	ctx, store, closeFn, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	t, ok, err := store.Add(ctx, text)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	if !ok {
		return errors.New("task text cannot be empty")
	}

	return iojson.WriteLine(c.Root().Writer, t)
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	f, err := cmd.filter()
	if err != nil {
		return err
	}

	_, store, closeFn, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	for i, t := range task.Visible(store.Tasks(), f) {
		if err := iojson.WriteLine(c.Root().Writer, listedTask{Position: i + 1, Task: t}); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *TaskCmd) runSetStatus(ctx context.Context, c *cli.Command, status task.Status) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: tick task %s <ref>", c.Name)
	}

	ctx, store, closeFn, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	t, err := cmd.resolve(store, c.Args().First())
	if err != nil {
		return err
	}

	if err := store.SetStatus(ctx, t.ID, status); err != nil {
		return fmt.Errorf("%s task %s: %w", c.Name, t.ShortID(), err)
	}

	updated, _ := store.Get(t.ID)
	return iojson.WriteLine(c.Root().Writer, updated)
}

func (cmd *TaskCmd) runDelete(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return errors.New("usage: tick task delete <ref>")
	}

	ctx, store, closeFn, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	t, err := cmd.resolve(store, c.Args().First())
	if err != nil {
		return err
	}

	if !cmd.yes {
		ok, err := cmd.confirm(t)
		if err != nil {
			return err
		}
		if !ok {
			printer.Ctx(ctx).Infof("Kept %q", t.Text)
			return nil
		}
	}

	if err := store.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete task %s: %w", t.ShortID(), err)
	}

	return iojson.WriteLine(c.Root().Writer, t)
}

func (cmd *TaskCmd) runImport(ctx context.Context, c *cli.Command) error {
	texts, err := cmd.importReader.Read(c.Root().Reader)
	if err != nil {
		return err
	}

	ctx, store, closeFn, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, text := range texts {
		t, ok, err := store.Add(ctx, text)
		if err != nil {
			return fmt.Errorf("import task: %w", err)
		}
		if !ok {
			continue
		}
		if err := iojson.WriteLine(c.Root().Writer, t); err != nil {
			return err
		}
	}
	return nil
}

// confirmDelete prompts on a terminal. Without one it refuses so scripts
// must pass --yes.
func (cmd *TaskCmd) confirmDelete(t task.Task) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to delete without confirmation; pass --yes")
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %q?", t.Text)).
		Affirmative("Delete").
		Negative("Keep").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
