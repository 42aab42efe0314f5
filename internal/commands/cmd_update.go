package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/urfave/cli/v3"
)

type UpdateCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	title        string
	description  string
	taskType     string
	status       string
	priority     string
	assignee     string
	notes        string
	addLabels    []string
	removeLabels []string
	jsonOutput   bool
}

// NewUpdateCmd creates a new update command
func NewUpdateCmd(flags *Flags, app *tracker.App) *UpdateCmd {
	return &UpdateCmd{flags: flags, app: app}
}

// Register adds the update command to the application
func (cmd *UpdateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a task",
		UsageText: "tl update <id> [options]",
		Description: `Updates only the fields that are passed. Passing an empty value clears
the field, e.g. --assignee "".

Labels are added before they are removed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "new description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "new type",
				Destination: &cmd.taskType,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "new status (open, in_progress, to_review, closed)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "new priority, 0-4 or P0-P4",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "new assignee",
				Destination: &cmd.assignee,
			},
			&cli.StringFlag{
				Name:        "notes",
				Usage:       "replace the notes",
				Destination: &cmd.notes,
			},
			&cli.StringSliceFlag{
				Name:        "add-label",
				Usage:       "labels to add",
				Destination: &cmd.addLabels,
			},
			&cli.StringSliceFlag{
				Name:        "remove-label",
				Usage:       "labels to remove",
				Destination: &cmd.removeLabels,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		ShellComplete: TaskIDCompleter(cmd.app, true),
		Action:        cmd.run,
	})

	return app
}

func (cmd *UpdateCmd) changeset(c *cli.Command) (task.Changeset, error) {
	var cs task.Changeset
	if c.IsSet("title") {
		cs.Title = &cmd.title
	}
	if c.IsSet("description") {
		cs.Description = &cmd.description
	}
	if c.IsSet("type") {
		cs.Type = task.Ptr(task.ParseType(cmd.taskType))
	}
	if c.IsSet("status") {
		cs.Status = task.Ptr(task.ParseStatus(cmd.status))
	}
	if c.IsSet("priority") {
		p, err := task.ParsePriority(cmd.priority)
		if err != nil {
			return task.Changeset{}, err
		}
		cs.Priority = &p
	}
	if c.IsSet("assignee") {
		cs.Assignee = &cmd.assignee
	}
	if c.IsSet("notes") {
		cs.Notes = &cmd.notes
	}
	cs.AddLabels = cmd.addLabels
	cs.RemoveLabels = cmd.removeLabels
	return cs, nil
}

func (cmd *UpdateCmd) run(ctx context.Context, c *cli.Command) error {
	ids := taskIDs(c)
	if len(ids) != 1 {
		return fmt.Errorf("expected exactly one task ID")
	}

	cs, err := cmd.changeset(c)
	if err != nil {
		return err
	}
	if cs.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	t, err := cmd.app.Tasks.Update(ctx, ids[0], cs)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, t)
	}

	_, _ = fmt.Fprintf(out, "Updated task %s\n", t.ID)
	return nil
}
