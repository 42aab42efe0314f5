package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests task IDs as
// positional completions. Closed tasks are only suggested when
// includeClosed is set.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(app *tracker.App, includeClosed bool) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Tasks == nil {
			return
		}

		tasks, err := app.Tasks.List(ctx, tracker.Filter{All: includeClosed})
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range tasks {
			_, _ = fmt.Fprintln(w, t.ID)
		}
	}
}
