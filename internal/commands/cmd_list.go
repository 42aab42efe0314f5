package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ListCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	statuses   []string
	types      []string
	assignee   string
	labels     []string
	all        bool
	long       bool
	watch      bool
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *tracker.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "tl list [options]",
		Description: `Lists tasks ordered by priority, then ID.

Without --status or --all only open and in_progress tasks are shown. Label
filters are glob patterns (e.g. 'area/*'); every pattern must match one of
the task's labels.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only tasks with these statuses (open, in_progress, to_review, closed)",
				Destination: &cmd.statuses,
			},
			&cli.StringSliceFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "only tasks of these types",
				Destination: &cmd.types,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "only tasks assigned to this person",
				Destination: &cmd.assignee,
			},
			&cli.StringSliceFlag{
				Name:        "label",
				Aliases:     []string{"l"},
				Usage:       "only tasks with a label matching this glob (repeatable)",
				Destination: &cmd.labels,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"A"},
				Usage:       "include every status",
				Destination: &cmd.all,
			},
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

func (cmd *ListCmd) filter() tracker.Filter {
	f := tracker.Filter{
		Assignee: cmd.assignee,
		Labels:   cmd.labels,
		All:      cmd.all,
	}
	for _, s := range cmd.statuses {
		f.Statuses = append(f.Statuses, task.ParseStatus(s))
	}
	for _, t := range cmd.types {
		f.Types = append(f.Types, task.ParseType(t))
	}
	return f
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.flags.Notices.WarnDeadHistory()

	out := c.Root().Writer
	if cmd.watch {
		return watchLog(ctx, out, cmd.app.Store.Path(), func(ctx context.Context) error {
			return cmd.render(ctx, c)
		})
	}
	return cmd.render(ctx, c)
}

func (cmd *ListCmd) render(ctx context.Context, c *cli.Command) error {
	tasks, err := cmd.app.Tasks.List(ctx, cmd.filter())
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
