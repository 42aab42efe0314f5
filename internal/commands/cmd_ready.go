package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ReadyCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	long       bool
	watch      bool
	jsonOutput bool
}

// NewReadyCmd creates a new ready command
func NewReadyCmd(flags *Flags, app *tracker.App) *ReadyCmd {
	return &ReadyCmd{flags: flags, app: app}
}

// Register adds the ready command to the application
func (cmd *ReadyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ready",
		Usage:     "List tasks that are ready to work on",
		UsageText: "tl ready [options]",
		Description: `Lists open tasks whose dependencies are all closed, most urgent first.

Dependencies on unknown task IDs do not block.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "long",
				Usage:       "show a table with every column",
				Destination: &cmd.long,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "redraw whenever the task log changes",
				Destination: &cmd.watch,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReadyCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.flags.Notices.WarnDeadHistory()

	if cmd.watch {
		return watchLog(ctx, c.Root().Writer, cmd.app.Store.Path(), func(ctx context.Context) error {
			return cmd.render(ctx, c)
		})
	}
	return cmd.render(ctx, c)
}

func (cmd *ReadyCmd) render(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks.Ready(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		raw, err := tasksJSON(tasks)
		if err != nil {
			return err
		}
		return iojson.WriteWith(out, os.Stderr, raw)
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(out, "No tasks found")
		return nil
	}

	if cmd.long {
		writeTaskTable(out, tasks)
		return nil
	}

	writeTaskLines(out, tasks)
	return nil
}
