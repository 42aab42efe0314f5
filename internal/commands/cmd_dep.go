package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/colonyops/ticketlog/internal/core/graph"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type DepCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	jsonOutput bool
}

// NewDepCmd creates a new dep command
func NewDepCmd(flags *Flags, app *tracker.App) *DepCmd {
	return &DepCmd{flags: flags, app: app}
}

// Register adds the dep command and its block, depends and unblock
// shortcuts to the application
func (cmd *DepCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "dep",
			Usage:     "Manage task dependencies",
			UsageText: "tl dep <command> [options]",
			Description: `A task depends on another when it cannot start before the other is
closed. Dependencies on unknown task IDs are kept but never block.`,
			Commands: []*cli.Command{
				cmd.addCmd("add", "Add a dependency", "tl dep add <id> <depends-on-id>"),
				cmd.removeCmd("remove", "Remove a dependency", "tl dep remove <id> <depends-on-id>"),
				cmd.listCmd(),
			},
		},
		cmd.addCmd("block", "Mark a task as blocked by another", "tl block <id> <blocker-id>"),
		cmd.addCmd("depends", "Make a task depend on another", "tl depends <id> <dependency-id>"),
		cmd.removeCmd("unblock", "Remove a blocker from a task", "tl unblock <id> <blocker-id>"),
	)

	return app
}

func (cmd *DepCmd) addCmd(name, usage, usageText string) *cli.Command {
	return &cli.Command{
		Name:          name,
		Usage:         usage,
		UsageText:     usageText,
		Flags:         []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.runAdd,
	}
}

func (cmd *DepCmd) removeCmd(name, usage, usageText string) *cli.Command {
	return &cli.Command{
		Name:          name,
		Usage:         usage,
		UsageText:     usageText,
		Flags:         []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.runRemove,
	}
}

func (cmd *DepCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:          "list",
		Usage:         "List what a task depends on and what it blocks",
		UsageText:     "tl dep list <id>",
		Flags:         []cli.Flag{jsonFlag(&cmd.jsonOutput)},
		ShellComplete: TaskIDCompleter(cmd.app, true),
		Action:        cmd.runList,
	}
}

func dependencyArgs(c *cli.Command) (string, string, error) {
	ids := taskIDs(c)
	if len(ids) != 2 {
		return "", "", fmt.Errorf("expected a task ID and a dependency ID")
	}
	return ids[0], ids[1], nil
}

func (cmd *DepCmd) runAdd(ctx context.Context, c *cli.Command) error {
	id, dependsOn, err := dependencyArgs(c)
	if err != nil {
		return err
	}

	t, changed, err := cmd.app.Tasks.AddDependency(ctx, id, dependsOn)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, t)
	}

	if !changed {
		_, _ = fmt.Fprintln(out, styles.TextWarningStyle.Render("Dependency already exists"))
		return nil
	}

	_, _ = fmt.Fprintf(out, "Added dependency: %s depends on %s\n", id, dependsOn)
	cmd.warnCycle(ctx, id)
	return nil
}

// warnCycle reports a dependency cycle through id on stderr. Cycles are
// allowed in the log, but no task on one can ever become ready.
func (cmd *DepCmd) warnCycle(ctx context.Context, id string) {
	snap, err := cmd.app.Tasks.Load(ctx)
	if err != nil {
		return
	}
	for _, cycle := range graph.New(snap.Tasks).Cycles() {
		if !slices.Contains(cycle, id) {
			continue
		}
		path := strings.Join(append(slices.Clone(cycle), cycle[0]), " -> ")
		msg := fmt.Sprintf("Warning: dependency cycle %s; none of these tasks can become ready", path)
		_, _ = fmt.Fprintln(os.Stderr, styles.TextWarningStyle.Render(msg))
		return
	}
}

func (cmd *DepCmd) runRemove(ctx context.Context, c *cli.Command) error {
	id, dependsOn, err := dependencyArgs(c)
	if err != nil {
		return err
	}

	t, changed, err := cmd.app.Tasks.RemoveDependency(ctx, id, dependsOn)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return writeTaskResult(out, t)
	}

	if !changed {
		_, _ = fmt.Fprintln(out, styles.TextWarningStyle.Render("Dependency does not exist"))
		return nil
	}

	_, _ = fmt.Fprintf(out, "Removed dependency: %s no longer depends on %s\n", id, dependsOn)
	return nil
}

func (cmd *DepCmd) runList(ctx context.Context, c *cli.Command) error {
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
		return iojson.WriteWith(out, os.Stderr, info)
	}

	_, _ = fmt.Fprintln(out, styles.SectionStyle.Render("Dependencies for "+info.TaskID))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, styles.TextForegroundBoldStyle.Render("Depends on (blocks this task):"))
	if len(info.DependsOn) == 0 {
		_, _ = fmt.Fprintln(out, styles.TextMutedStyle.Render("  No dependencies"))
	}
	for _, dep := range info.DependsOn {
		idx := slices.IndexFunc(info.Known, func(t task.Task) bool { return t.ID == dep })
		if idx < 0 {
			_, _ = fmt.Fprintf(out, "  - %s: %s\n", dep, styles.TextErrorStyle.Render("(not found)"))
			continue
		}
		writeDepLine(out, info.Known[idx])
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.TextForegroundBoldStyle.Render("Blocks these tasks:"))
	if len(info.Blocked) == 0 {
		_, _ = fmt.Fprintln(out, styles.TextMutedStyle.Render("  Does not block any tasks"))
	}
	for _, t := range info.Blocked {
		writeDepLine(out, t)
	}
	return nil
}

func writeDepLine(w io.Writer, t task.Task) {
	_, _ = fmt.Fprintf(w, "  - %s: %s [%s]\n",
		styles.TaskIDStyle.Render(t.ID),
		t.Title,
		styles.StatusStyle(string(t.Status)).Render(string(t.Status)))
}
