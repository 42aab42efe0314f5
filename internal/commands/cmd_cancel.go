package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

type CancelCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	reason     string
	jsonOutput bool
}

// NewCancelCmd creates a new cancel command
func NewCancelCmd(flags *Flags, app *tracker.App) *CancelCmd {
	return &CancelCmd{flags: flags, app: app}
}

// Register adds the cancel command to the application
func (cmd *CancelCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "cancel",
		Usage:       "Close tasks that will not be done",
		UsageText:   "tl cancel <id>... [--reason text]",
		Description: "Closes every listed task and records the cancellation, with the optional reason, in its notes.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "reason",
				Aliases:     []string{"r"},
				Usage:       "why the task was canceled",
				Destination: &cmd.reason,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CancelCmd) run(ctx context.Context, c *cli.Command) error {
	ids := taskIDs(c)
	if len(ids) == 0 {
		return fmt.Errorf("at least one task ID is required")
	}

	canceled, err := cmd.app.Tasks.Cancel(ctx, ids, cmd.reason)
	return writeClosed(c.Root().Writer, "Canceled", canceled, err, cmd.jsonOutput)
}
