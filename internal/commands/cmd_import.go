package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/ticketlog/internal/core/beads"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ImportCmd struct {
	flags *Flags
	app   *tracker.App

	// flags
	dryRun     bool
	jsonOutput bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *tracker.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import tasks from other trackers",
		UsageText: "tl import <format> [options]",
		Commands: []*cli.Command{
			{
				Name:      "beads",
				Usage:     "Import a beads issues.jsonl file",
				UsageText: "tl import beads [file] [--dry-run]",
				Description: `Imports every issue from a beads issues.jsonl export. Without a file
argument, piped stdin is read; otherwise .beads/issues.jsonl in the project
root is used.

Issues whose ID already exists are skipped, so importing the same file twice
is safe. Bad lines are reported and do not stop the import.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "dry-run",
						Usage:       "show what would be imported without writing",
						Destination: &cmd.dryRun,
					},
					jsonFlag(&cmd.jsonOutput),
				},
				Action: cmd.runBeads,
			},
		},
	})

	return app
}

// importOutput is the JSON output of import beads.
type importOutput struct {
	SourceFile string `json:"source_file"`
	tracker.ImportReport
}

func (cmd *ImportCmd) runBeads(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" && isTerminal(os.Stdin) {
		if candidate := beads.IssuesPath(cmd.app.Project.Root); fileExists(candidate) {
			path = candidate
		}
	}

	r, err := iojson.OpenInput(path, os.Stdin)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	report, err := cmd.app.Tasks.Import(ctx, r, cmd.dryRun)
	if err != nil {
		return err
	}

	source := path
	if source == "" || source == "-" {
		source = "<stdin>"
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, importOutput{SourceFile: source, ImportReport: report})
	}

	writeImportReport(out, source, report)
	return nil
}

func writeImportReport(w io.Writer, source string, report tracker.ImportReport) {
	_, _ = fmt.Fprintf(w, "Importing from beads: %s\n\n", source)

	for _, d := range report.Details {
		switch d.Status {
		case tracker.ImportImported:
			verb := "Imported"
			if report.DryRun {
				verb = "Would import"
			}
			_, _ = fmt.Fprintf(w, "%s %s: %s %q [%s]\n",
				styles.TextSuccessStyle.Render(styles.IconPass),
				styles.TaskIDStyle.Render(d.ID), verb, d.Title, d.Type)
			for _, warning := range d.Warnings {
				_, _ = fmt.Fprintf(w, "  %s %s\n", styles.TextWarningStyle.Render(styles.IconSkip), warning)
			}
		case tracker.ImportSkipped:
			_, _ = fmt.Fprintf(w, "%s %s: Skipped (%s)\n",
				styles.TextWarningStyle.Render(styles.IconWarn),
				styles.TaskIDStyle.Render(d.ID), d.Reason)
		case tracker.ImportError:
			_, _ = fmt.Fprintf(w, "%s Line %d: %s\n",
				styles.TextErrorStyle.Render(styles.IconFail), d.Line, d.Error)
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.SectionStyle.Render("Summary:"))
	if report.DryRun {
		_, _ = fmt.Fprintln(w, styles.TextWarningStyle.Render("  (Dry run - no changes made)"))
	}
	_, _ = fmt.Fprintf(w, "  Imported: %d\n", report.Stats.Imported)
	if report.Stats.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "  Skipped:  %d\n", report.Stats.Skipped)
	}
	if report.Stats.Errors > 0 {
		_, _ = fmt.Fprintf(w, "  Errors:   %d\n", report.Stats.Errors)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
