package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/tick/internal/core/task"
	"github.com/urfave/cli/v3"
)

// taskRefCompleter returns a ShellCompleteFunc that suggests short ids of
// tasks matching keep, with the task text as the description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func (cmd *TaskCmd) taskRefCompleter(keep func(task.Task) bool) cli.ShellCompleteFunc {
	return func(ctx context.Context, c *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := c.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, c)
				return
			}
		}

		_, store, closeFn, err := cmd.open(ctx)
		if err != nil {
			return
		}
		defer closeFn()

		w := c.Root().Writer
		for _, t := range store.Tasks() {
			if !keep(t) {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s:%s\n", t.ShortID(), t.Text)
		}
	}
}

func isPending(t task.Task) bool {
	return t.Status == task.StatusPending
}

func anyTask(task.Task) bool {
	return true
}
