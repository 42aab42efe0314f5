package tasklog

import (
	"maps"
	"slices"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// Snapshot is the current state of every task reconstructed from the log.
type Snapshot struct {
	Tasks   map[string]task.Task
	Skipped []*DecodeError // undecodable lines, in file order
	Lines   int            // non-blank lines read
}

func newSnapshot() *Snapshot {
	return &Snapshot{Tasks: make(map[string]task.Task)}
}

// NewSnapshot builds a snapshot directly from tasks, as if each had been
// read from a single log line.
func NewSnapshot(tasks ...task.Task) *Snapshot {
	s := newSnapshot()
	for _, t := range tasks {
		s.Lines++
		s.put(t)
	}
	return s
}

func (s *Snapshot) put(t task.Task) {
	s.Tasks[t.ID] = t
}

// Len returns the number of current tasks.
func (s *Snapshot) Len() int {
	return len(s.Tasks)
}

// Get returns the current state of the task with the given ID.
func (s *Snapshot) Get(id string) (task.Task, bool) {
	t, ok := s.Tasks[id]
	return t, ok
}

// IDs returns every current task ID in ascending order.
func (s *Snapshot) IDs() []string {
	return slices.Sorted(maps.Keys(s.Tasks))
}

// Sorted returns every current task ordered by ID.
func (s *Snapshot) Sorted() []task.Task {
	out := make([]task.Task, 0, len(s.Tasks))
	for _, id := range s.IDs() {
		out = append(out, s.Tasks[id])
	}
	return out
}

// ReferencedIDs returns every task ID plus every ID named as a dependency,
// including dangling ones.
func (s *Snapshot) ReferencedIDs() []string {
	seen := make(map[string]struct{}, len(s.Tasks))
	for id, t := range s.Tasks {
		seen[id] = struct{}{}
		for _, dep := range t.Dependencies {
			seen[dep] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// DeadLines returns how many lines are superseded by later lines or could
// not be decoded.
func (s *Snapshot) DeadLines() int {
	return s.Lines - len(s.Tasks)
}

// DeadHistoryRatio returns the share of log lines that no longer describe
// current state. An empty log has a ratio of zero.
func (s *Snapshot) DeadHistoryRatio() float64 {
	if s.Lines == 0 {
		return 0
	}
	return float64(s.DeadLines()) / float64(s.Lines)
}
