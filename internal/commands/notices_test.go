package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
	"github.com/stretchr/testify/assert"
)

func TestNotices_DeadHistory(t *testing.T) {
	one := task.Task{ID: "tl-1", Title: "one"}
	two := task.Task{ID: "tl-2", Title: "two"}
	snap := tasklog.NewSnapshot(one, one, one, one, two) // 3 of 5 lines dead

	tests := []struct {
		name      string
		threshold float64
		optIn     bool
		want      string
	}{
		{name: "not opted in", threshold: 0.3, optIn: false, want: ""},
		{name: "above threshold", threshold: 0.3, optIn: true, want: "Warning: 60% of the task log is dead history; run 'tl clean' to compact it\n"},
		{name: "at threshold", threshold: 0.6, optIn: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n := NewNotices(&buf, tt.threshold)
			if tt.optIn {
				n.WarnDeadHistory()
			}

			n.Observe(snap)
			n.Observe(snap)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNotices_SkippedLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotices(&buf, 1)

	snap := tasklog.NewSnapshot(task.Task{ID: "tl-1"})
	snap.Skipped = []*tasklog.DecodeError{{Line: 3}, {Line: 7}}

	n.Observe(snap)
	n.Observe(snap)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "skipped 2 unreadable line(s)")
	assert.Contains(t, buf.String(), "lines 3, 7")
}

func TestNotices_Nil(t *testing.T) {
	var n *Notices
	n.WarnDeadHistory()
	n.Observe(tasklog.NewSnapshot())
}

func TestNotices_ReadCommandsWarn(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "a")
	h.mustRun("update", "--title", "b", "tl-1")
	h.mustRun("update", "--title", "c", "tl-1")
	assert.Empty(t, h.notice.String())

	h.mustRun("list")
	assert.Contains(t, h.notice.String(), "67% of the task log is dead history")
}
