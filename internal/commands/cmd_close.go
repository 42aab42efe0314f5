package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type CloseCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	review     bool
	jsonOutput bool
}

// NewCloseCmd creates a new close command
func NewCloseCmd(flags *Flags, app *tracker.App) *CloseCmd {
	return &CloseCmd{flags: flags, app: app}
}

// Register adds the close command to the application
func (cmd *CloseCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "close",
		Aliases:   []string{"done", "rm"},
		Usage:     "Close one or more tasks",
		UsageText: "tl close <id>... | tl close --review",
		Description: `Closes every listed task. Unknown IDs are reported and the remaining
tasks are still closed.

Use --review to close every task waiting in to_review.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "review",
				Usage:       "close every task in to_review",
				Destination: &cmd.review,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CloseCmd) run(ctx context.Context, c *cli.Command) error {
	ids := taskIDs(c)

	var (
		closed []task.Task
		err    error
	)
	switch {
	case cmd.review && len(ids) > 0:
		return fmt.Errorf("pass either task IDs or --review, not both")
	case cmd.review:
		closed, err = cmd.app.Tasks.CloseReview(ctx)
	case len(ids) == 0:
		return fmt.Errorf("at least one task ID is required")
	default:
		closed, err = cmd.app.Tasks.Close(ctx, ids)
	}

	return writeClosed(c.Root().Writer, "Closed", closed, err, cmd.jsonOutput)
}

// closeOutput is the JSON output of close and cancel.
type closeOutput struct {
	Tasks  []any        `json:"tasks"`
	Failed []failedJSON `json:"failed,omitempty"`
}

type failedJSON struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// writeClosed reports the result of a batch close. A partial failure still
// prints the tasks that were closed before the error is returned.
func writeClosed(out io.Writer, verb string, closed []task.Task, err error, jsonOutput bool) error {
	var partial *tracker.PartialFailureError
	if err != nil && !errors.As(err, &partial) {
		return err
	}

	if jsonOutput {
		res := closeOutput{Tasks: make([]any, 0, len(closed))}
		for _, t := range closed {
			raw, encErr := taskJSON(t)
			if encErr != nil {
				return encErr
			}
			res.Tasks = append(res.Tasks, raw)
		}
		if partial != nil {
			for _, f := range partial.Failed {
				res.Failed = append(res.Failed, failedJSON{ID: f.ID, Error: f.Err.Error()})
			}
		}
		if writeErr := iojson.WriteWith(out, os.Stderr, res); writeErr != nil {
			return writeErr
		}
		return err
	}

	switch len(closed) {
	case 0:
		if partial == nil {
			_, _ = fmt.Fprintln(out, "No tasks found in to_review status")
		}
	case 1:
		_, _ = fmt.Fprintf(out, "%s task %s\n", verb, closed[0].ID)
	default:
		_, _ = fmt.Fprintf(out, "%s %d tasks\n", verb, len(closed))
		for _, t := range closed {
			_, _ = fmt.Fprintf(out, "  %s\n", t.ID)
		}
	}

	return err
}
