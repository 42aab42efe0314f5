package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/colonyops/ticketlog/pkg/iojson"
	"golang.org/x/term"
)

const displayTimeLayout = "2006-01-02 15:04"

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// taskJSON renders t exactly as it is stored in the log so JSON output and
// log lines share field order and timestamp format.
func taskJSON(t task.Task) (json.RawMessage, error) {
	raw, err := tasklog.Encode(t)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// writeTaskResult writes t as indented JSON.
func writeTaskResult(w io.Writer, t task.Task) error {
	raw, err := taskJSON(t)
	if err != nil {
		return err
	}
	return iojson.WriteWith(w, os.Stderr, raw)
}

func tasksJSON(tasks []task.Task) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(tasks))
	for _, t := range tasks {
		raw, err := taskJSON(t)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// taskLine renders the condensed one line form used by list and ready.
func taskLine(t task.Task) string {
	var b strings.Builder
	b.WriteString(styles.StatusStyle(string(t.Status)).Render(styles.StatusIcon(string(t.Status))))
	b.WriteString(" ")
	b.WriteString(styles.TaskIDStyle.Render(t.ID))
	b.WriteString(" ")
	b.WriteString(styles.PriorityStyle(t.Priority).Render("[" + task.FormatPriority(t.Priority) + "]"))
	b.WriteString(" ")
	b.WriteString(styles.TaskTitleStyle.Render(t.Title))
	b.WriteString(" ")
	b.WriteString(styles.TaskTypeStyle.Render("[" + string(t.Type) + "]"))
	if t.Assignee != "" {
		b.WriteString(" ")
		b.WriteString(styles.TextMutedStyle.Render("@" + t.Assignee))
	}
	return b.String()
}

func writeTaskLines(w io.Writer, tasks []task.Task) {
	for _, t := range tasks {
		_, _ = fmt.Fprintln(w, taskLine(t))
	}
}

// writeTaskTable renders tasks as a bordered table.
func writeTaskTable(w io.Writer, tasks []task.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			string(t.Status),
			task.FormatPriority(t.Priority),
			string(t.Type),
			t.Assignee,
			t.Title,
			strings.Join(t.Labels, ", "),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers("ID", "STATUS", "PRI", "TYPE", "ASSIGNEE", "TITLE", "LABELS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			if col == 1 && row >= 0 && row < len(tasks) {
				return styles.StatusStyle(string(tasks[row].Status)).Padding(0, 1)
			}
			return styles.TableCellStyle
		})

	_, _ = fmt.Fprintln(w, tbl.Render())
}

// writeTaskDetail renders every field of a task followed by its dependency
// neighborhood. Descriptions are rendered as markdown when markdown is set.
func writeTaskDetail(w io.Writer, info tracker.DependencyInfo, markdown bool) {
	t := info.Task

	_, _ = fmt.Fprintf(w, "%s %s\n", styles.TaskIDStyle.Render(t.ID), styles.TaskTitleStyle.Render(t.Title))
	_, _ = fmt.Fprintln(w)

	field := func(key, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.DetailKeyStyle.Render(key), value)
	}

	field("Status", styles.StatusStyle(string(t.Status)).Render(styles.StatusIcon(string(t.Status))+" "+string(t.Status)))
	field("Priority", styles.PriorityStyle(t.Priority).Render(task.FormatPriority(t.Priority)))
	field("Type", string(t.Type))
	if t.Assignee != "" {
		field("Assignee", t.Assignee)
	}
	if len(t.Labels) > 0 {
		field("Labels", strings.Join(t.Labels, ", "))
	}
	field("Created", t.CreatedAt.Local().Format(displayTimeLayout))
	field("Updated", t.UpdatedAt.Local().Format(displayTimeLayout))
	if t.ClosedAt != nil {
		field("Closed", t.ClosedAt.Local().Format(displayTimeLayout))
	}

	if t.Description != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.SectionStyle.Render("Description"))
		_, _ = fmt.Fprintln(w, renderMarkdown(t.Description, markdown))
	}

	if t.Notes != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.SectionStyle.Render("Notes"))
		_, _ = fmt.Fprintln(w, t.Notes)
	}

	if len(info.Known) > 0 || len(info.Dangling) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.SectionStyle.Render("Depends on"))
		writeTaskLines(w, info.Known)
		for _, id := range info.Dangling {
			_, _ = fmt.Fprintf(w, "%s %s %s\n",
				styles.TextMutedStyle.Render(styles.IconUnknown),
				styles.TaskIDStyle.Render(id),
				styles.TextMutedStyle.Render("(unknown task)"))
		}
	}

	if len(info.Blocked) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.SectionStyle.Render("Blocks"))
		writeTaskLines(w, info.Blocked)
	}
}

// renderMarkdown renders s with glamour when enabled, falling back to the
// raw text on any rendering error.
func renderMarkdown(s string, enabled bool) string {
	if !enabled {
		return s
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return s
	}

	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}
