package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/ticketlog/internal/store/tasklog"
)

// Compactor rewrites the log without superseded lines.
type Compactor interface {
	Compact(ctx context.Context, opts tasklog.CompactOptions) (tasklog.CompactResult, error)
}

// HistoryCheck compares the share of superseded log lines to the configured
// threshold. With autofix the log is compacted.
type HistoryCheck struct {
	snap      *tasklog.Snapshot
	threshold float64
	compactor Compactor
	autofix   bool
}

// NewHistoryCheck creates a dead-history check.
func NewHistoryCheck(snap *tasklog.Snapshot, threshold float64, compactor Compactor, autofix bool) *HistoryCheck {
	return &HistoryCheck{snap: snap, threshold: threshold, compactor: compactor, autofix: autofix}
}

func (c *HistoryCheck) Name() string {
	return "History"
}

func (c *HistoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	if c.snap == nil {
		return result
	}

	ratio := c.snap.DeadHistoryRatio()
	detail := fmt.Sprintf("%.0f%% dead (%d of %d lines), threshold %.0f%%",
		ratio*100, c.snap.DeadLines(), c.snap.Lines, c.threshold*100)

	if ratio <= c.threshold {
		result.Items = append(result.Items, CheckItem{
			Label:  "dead history",
			Status: StatusPass,
			Detail: detail,
		})
		return result
	}

	// Compaction refuses while unreadable lines exist; those need a human.
	fixable := len(c.snap.Skipped) == 0

	if c.autofix && fixable && c.compactor != nil {
		res, err := c.compactor.Compact(ctx, tasklog.CompactOptions{})
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  "dead history",
				Status: StatusFail,
				Detail: fmt.Sprintf("compaction failed: %v", err),
			})
			return result
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "dead history",
			Status: StatusPass,
			Detail: fmt.Sprintf("compacted %d lines to %d", res.OriginalLines, res.NewLines),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:   "dead history",
		Status:  StatusWarn,
		Detail:  detail + " (run 'tl clean')",
		Fixable: fixable,
	})
	return result
}
