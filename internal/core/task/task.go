// Package task defines the task domain model shared by the log store, the
// dependency resolver and the operation API.
package task

import (
	"slices"
	"time"
)

// Type classifies the kind of work a task represents.
type Type string

const (
	TypeTask    Type = "task"
	TypeBug     Type = "bug"
	TypeFeature Type = "feature"
	TypeEpic    Type = "epic"
	TypeChore   Type = "chore"
)

// Types returns every valid task type in display order.
func Types() []Type {
	return []Type{TypeTask, TypeBug, TypeFeature, TypeEpic, TypeChore}
}

// IsValid reports whether t is a known task type.
func (t Type) IsValid() bool {
	return slices.Contains(Types(), t)
}

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusToReview   Status = "to_review"
	StatusClosed     Status = "closed"
)

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusToReview, StatusClosed}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses(), s)
}

// Priority bounds. Lower numbers are more urgent.
const (
	MinPriority     = 0
	MaxPriority     = 4
	DefaultPriority = 2
)

// Task is the full state of one task at a point in time. Every mutation
// produces a new Task value that is appended to the log as a whole.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Description  string     `json:"description"`
	Type         Type       `json:"type"`
	Status       Status     `json:"status"`
	Priority     int        `json:"priority"`
	Assignee     string     `json:"assignee"`
	Labels       []string   `json:"labels"`
	ClosedAt     *time.Time `json:"closed_at"`
	Dependencies []string   `json:"dependencies"`
	Notes        string     `json:"notes"`
}

// Now returns the current time in the precision stored in the log.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Clone returns a deep copy of t so callers can mutate it freely.
func (t Task) Clone() Task {
	c := t
	c.Labels = slices.Clone(t.Labels)
	c.Dependencies = slices.Clone(t.Dependencies)
	if t.ClosedAt != nil {
		closed := *t.ClosedAt
		c.ClosedAt = &closed
	}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if c.Dependencies == nil {
		c.Dependencies = []string{}
	}
	return c
}

// IsClosed reports whether the task is closed.
func (t Task) IsClosed() bool {
	return t.Status == StatusClosed
}

// HasLabel reports whether label is set on the task.
func (t Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels, label)
}

// HasDependency reports whether the task depends on id.
func (t Task) HasDependency(id string) bool {
	return slices.Contains(t.Dependencies, id)
}

// SetStatus changes the status and keeps ClosedAt consistent with it:
// entering closed stamps ClosedAt, leaving closed clears it. Re-closing an
// already closed task keeps the original close time.
func (t *Task) SetStatus(s Status, now time.Time) {
	switch {
	case s == StatusClosed && t.Status != StatusClosed:
		closed := now
		t.ClosedAt = &closed
	case s != StatusClosed:
		t.ClosedAt = nil
	}
	t.Status = s
}

// Touch records a mutation at now.
func (t *Task) Touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// AddDependency adds id to the dependency set. It returns false when the
// dependency was already present.
func (t *Task) AddDependency(id string) bool {
	if t.HasDependency(id) {
		return false
	}
	t.Dependencies = append(t.Dependencies, id)
	return true
}

// RemoveDependency removes id from the dependency set. It returns false when
// the dependency was not present.
func (t *Task) RemoveDependency(id string) bool {
	idx := slices.Index(t.Dependencies, id)
	if idx < 0 {
		return false
	}
	t.Dependencies = slices.Delete(t.Dependencies, idx, idx+1)
	return true
}

// AppendNote appends a line to the task notes.
func (t *Task) AppendNote(note string) {
	if t.Notes == "" {
		t.Notes = note
		return
	}
	t.Notes = t.Notes + "\n" + note
}

// uniq collapses duplicates while keeping first-seen order.
func uniq(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Normalize collapses duplicate labels and dependencies and replaces nil
// collections with empty ones.
func (t *Task) Normalize() {
	t.Labels = uniq(t.Labels)
	t.Dependencies = uniq(t.Dependencies)
}
