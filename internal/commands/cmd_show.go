package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *tracker.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "show",
		Usage:         "Show task details",
		UsageText:     "tl show <id> [options]",
		Description:   "Shows every field of a task along with the tasks it depends on and the tasks it blocks.",
		Flags:         []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		ShellComplete: TaskIDCompleter(cmd.app, true),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.flags.Notices.WarnDeadHistory()

	ids := taskIDs(c)
	if len(ids) != 1 {
		return fmt.Errorf("expected exactly one task ID")
	}

	info, err := cmd.app.Tasks.Dependencies(ctx, ids[0])
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, info.Task)
	}

	writeTaskDetail(out, info, isTerminal(out))
	return nil
}
