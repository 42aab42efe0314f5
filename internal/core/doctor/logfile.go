package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/colonyops/ticketlog/internal/store/tasklog"
)

// maxReportedLines bounds how many unreadable line numbers are listed.
const maxReportedLines = 5

// LogCheck verifies that the task log exists and every line decodes.
type LogCheck struct {
	path    string
	snap    *tasklog.Snapshot
	loadErr error
}

// NewLogCheck creates a log check from the result of loading the log.
func NewLogCheck(path string, snap *tasklog.Snapshot, loadErr error) *LogCheck {
	return &LogCheck{path: path, snap: snap, loadErr: loadErr}
}

func (c *LogCheck) Name() string {
	return "Task Log"
}

func (c *LogCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusPass,
			Detail: "not created yet",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: "path is a directory",
		})
		return result
	}

	if c.loadErr != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: c.loadErr.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.path,
		Status: StatusPass,
		Detail: fmt.Sprintf("%d tasks in %d lines", c.snap.Len(), c.snap.Lines),
	})

	if n := len(c.snap.Skipped); n > 0 {
		lines := make([]string, 0, maxReportedLines)
		for i, skipped := range c.snap.Skipped {
			if i == maxReportedLines {
				lines = append(lines, "...")
				break
			}
			lines = append(lines, fmt.Sprint(skipped.Line))
		}
		result.Items = append(result.Items, CheckItem{
			Label:   "unreadable lines",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d line(s) skipped: %s (fix by hand or 'tl clean --drop-invalid')", n, strings.Join(lines, ", ")),
			Fixable: false,
		})
	}

	return result
}
