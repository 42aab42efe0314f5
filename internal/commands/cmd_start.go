package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

type StartCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	assignee   string
	jsonOutput bool
}

// NewStartCmd creates a new start command
func NewStartCmd(flags *Flags, app *tracker.App) *StartCmd {
	return &StartCmd{flags: flags, app: app}
}

// Register adds the start command to the application
func (cmd *StartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "start",
		Usage:       "Start working on a task",
		UsageText:   "tl start <id> [--assignee name]",
		Description: "Moves a task to in_progress, optionally assigning it.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "assign the task while starting it",
				Destination: &cmd.assignee,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.run,
	})

	return app
}

func (cmd *StartCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.flags.Notices.WarnDeadHistory()

	ids := taskIDs(c)
	if len(ids) != 1 {
		return fmt.Errorf("expected exactly one task ID")
	}

	t, err := cmd.app.Tasks.Start(ctx, ids[0], cmd.assignee)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, t)
	}

	if t.Assignee != "" {
		_, _ = fmt.Fprintf(out, "Started task %s (assigned to %s)\n", t.ID, t.Assignee)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Started task %s\n", t.ID)
	return nil
}
