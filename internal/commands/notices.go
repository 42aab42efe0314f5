package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/colonyops/ticketlog/internal/core/styles"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
)

// Notices prints warnings about the state of the log. Each warning is
// printed at most once per invocation no matter how often the log is read.
type Notices struct {
	w         io.Writer
	threshold float64

	mu          sync.Mutex
	history     bool
	skippedOnce sync.Once
	historyOnce sync.Once
}

// NewNotices creates a Notices writing to w. threshold is the dead history
// ratio above which read commands suggest compaction.
func NewNotices(w io.Writer, threshold float64) *Notices {
	return &Notices{w: w, threshold: threshold}
}

// WarnDeadHistory enables the dead history warning for the current
// command. Only read commands opt in so mutations stay quiet.
func (n *Notices) WarnDeadHistory() {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.history = true
	n.mu.Unlock()
}

// Observe inspects a freshly loaded snapshot.
func (n *Notices) Observe(snap *tasklog.Snapshot) {
	if n == nil || snap == nil {
		return
	}

	if len(snap.Skipped) > 0 {
		n.skippedOnce.Do(func() {
			lines := make([]string, len(snap.Skipped))
			for i, s := range snap.Skipped {
				lines[i] = fmt.Sprint(s.Line)
			}
			msg := fmt.Sprintf("Warning: skipped %d unreadable line(s) in the task log (lines %s); run 'tl doctor' for details",
				len(snap.Skipped), strings.Join(lines, ", "))
			_, _ = fmt.Fprintln(n.w, styles.TextWarningStyle.Render(msg))
		})
	}

	n.mu.Lock()
	history := n.history
	n.mu.Unlock()
	if !history {
		return
	}

	ratio := snap.DeadHistoryRatio()
	if ratio <= n.threshold {
		return
	}
	n.historyOnce.Do(func() {
		msg := fmt.Sprintf("Warning: %.0f%% of the task log is dead history; run 'tl clean' to compact it", ratio*100)
		_, _ = fmt.Fprintln(n.w, styles.TextWarningStyle.Render(msg))
	})
}
