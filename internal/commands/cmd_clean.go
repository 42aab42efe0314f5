package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type CleanCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	dropInvalid bool
	jsonOutput  bool
}

// NewCleanCmd creates a new clean command
func NewCleanCmd(flags *Flags, app *tracker.App) *CleanCmd {
	return &CleanCmd{flags: flags, app: app}
}

// Register adds the clean command to the application
func (cmd *CleanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clean",
		Usage:     "Compact the task log",
		UsageText: "tl clean [--drop-invalid]",
		Description: `Rewrites the task log with exactly one line per task, dropping the
superseded history. The log is replaced atomically.

Unreadable lines make clean refuse to run so nothing is lost by accident;
inspect them with 'tl doctor' and pass --drop-invalid to discard them.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "drop-invalid",
				Usage:       "discard lines that cannot be decoded",
				Destination: &cmd.dropInvalid,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CleanCmd) run(ctx context.Context, c *cli.Command) error {
	result, err := cmd.app.Tasks.Compact(ctx, tasklog.CompactOptions{DropInvalid: cmd.dropInvalid})
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, result)
	}

	switch {
	case result.OriginalLines == 0:
		_, _ = fmt.Fprintln(out, styles.TextWarningStyle.Render("No tasks to clean"))
	case result.Removed == 0:
		_, _ = fmt.Fprintf(out, "Log already clean: %d lines (no duplicates)\n", result.OriginalLines)
	default:
		_, _ = fmt.Fprintf(out, "Cleaned log: %d lines → %d lines (removed %d duplicates)\n",
			result.OriginalLines, result.NewLines, result.Removed-result.Dropped)
		if result.Dropped > 0 {
			_, _ = fmt.Fprintln(out, styles.TextWarningStyle.Render(fmt.Sprintf("Dropped %d unreadable line(s)", result.Dropped)))
		}
	}
	return nil
}
