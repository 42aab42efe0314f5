package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/ticketlog/internal/core/logging"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type CreateCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	taskType    string
	priority    string
	description string
	assignee    string
	labels      []string
	deps        []string
	jsonOutput  bool
}

// NewCreateCmd creates a new create command
func NewCreateCmd(flags *Flags, app *tracker.App) *CreateCmd {
	return &CreateCmd{flags: flags, app: app}
}

// Register adds the create command to the application
func (cmd *CreateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "create",
		Aliases:   []string{"new", "add"},
		Usage:     "Create a new task",
		UsageText: "tl create <title> [options]",
		Description: `Creates a task and appends it to the task log.

All positional arguments are joined into the title. Priority accepts 0-4 or
P0-P4; when omitted the project's default_priority is used.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "task type (task, bug, feature, epic, chore)",
				Value:       string(task.TypeTask),
				Destination: &cmd.taskType,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority, 0 (highest) to 4 (lowest)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "task description (markdown)",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "assign the task to someone",
				Destination: &cmd.assignee,
			},
			&cli.StringSliceFlag{
				Name:        "label",
				Aliases:     []string{"l"},
				Usage:       "labels to set (repeatable or comma separated)",
				Destination: &cmd.labels,
			},
			&cli.StringSliceFlag{
				Name:        "dep",
				Usage:       "IDs of tasks this task depends on",
				Destination: &cmd.deps,
			},
			jsonFlag(&cmd.jsonOutput),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CreateCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("title is required")
	}

	draft := task.Draft{
		Title:        title,
		Description:  cmd.description,
		Type:         task.ParseType(cmd.taskType),
		Assignee:     cmd.assignee,
		Labels:       cmd.labels,
		Dependencies: cmd.deps,
	}

	if cmd.priority != "" {
		p, err := task.ParsePriority(cmd.priority)
		if err != nil {
			return err
		}
		draft.Priority = &p
	}

	t, err := cmd.app.Tasks.Create(ctx, draft)
	if err != nil {
		return err
	}

	ctx = logging.WithTaskID(ctx, t.ID)
	log.Debug().Ctx(ctx).Msg("created task")

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, t)
	}

	_, _ = fmt.Fprintf(out, "Created task %s\n", t.ID)
	return nil
}
