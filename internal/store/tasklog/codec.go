package tasklog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// TimeLayout is the timestamp layout written to the log. Timestamps are
// always UTC with microsecond precision.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// legacyTimeLayout accepts timestamps written without a zone designator.
const legacyTimeLayout = "2006-01-02T15:04:05.999999999"

// DecodeError reports a log line that could not be turned into a task.
type DecodeError struct {
	Line int    // 1-based line number
	Raw  string // the offending line
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// entry is the on-disk shape of one log line. Field order matches the
// encoded key order.
type entry struct {
	ID           *string  `json:"id"`
	Title        *string  `json:"title"`
	CreatedAt    *string  `json:"created_at"`
	UpdatedAt    *string  `json:"updated_at"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Priority     *int     `json:"priority"`
	Assignee     *string  `json:"assignee"`
	Labels       []string `json:"labels"`
	ClosedAt     *string  `json:"closed_at"`
	Dependencies []string `json:"dependencies"`
	Notes        string   `json:"notes"`
}

// FormatTime renders t in the log timestamp layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a log timestamp. Values without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		var legacyErr error
		t, legacyErr = time.Parse(legacyTimeLayout, strings.TrimSuffix(s, "Z"))
		if legacyErr != nil {
			return time.Time{}, err
		}
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// Encode serializes the full state of t as a single line without a trailing
// newline.
func Encode(t task.Task) ([]byte, error) {
	var (
		createdAt = FormatTime(t.CreatedAt)
		updatedAt = FormatTime(t.UpdatedAt)
	)

	e := entry{
		ID:           &t.ID,
		Title:        &t.Title,
		CreatedAt:    &createdAt,
		UpdatedAt:    &updatedAt,
		Description:  t.Description,
		Type:         string(t.Type),
		Status:       string(t.Status),
		Priority:     &t.Priority,
		Labels:       t.Labels,
		Dependencies: t.Dependencies,
		Notes:        t.Notes,
	}
	if t.Assignee != "" {
		e.Assignee = &t.Assignee
	}
	if t.ClosedAt != nil {
		closed := FormatTime(*t.ClosedAt)
		e.ClosedAt = &closed
	}
	if e.Labels == nil {
		e.Labels = []string{}
	}
	if e.Dependencies == nil {
		e.Dependencies = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses one log line. lineNo is only used for error reporting.
func Decode(lineNo int, raw []byte) (task.Task, error) {
	t, err := decode(raw)
	if err != nil {
		return task.Task{}, &DecodeError{Line: lineNo, Raw: string(raw), Err: err}
	}
	return t, nil
}

func decode(raw []byte) (task.Task, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return task.Task{}, fmt.Errorf("invalid json: %w", err)
	}

	var missing []string
	if e.ID == nil {
		missing = append(missing, "id")
	}
	if e.Title == nil {
		missing = append(missing, "title")
	}
	if e.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if e.UpdatedAt == nil {
		missing = append(missing, "updated_at")
	}
	if len(missing) > 0 {
		return task.Task{}, fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}

	if err := task.ValidateID(*e.ID); err != nil {
		return task.Task{}, err
	}

	createdAt, err := ParseTime(*e.CreatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := ParseTime(*e.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("updated_at: %w", err)
	}

	t := task.Task{
		ID:           *e.ID,
		Title:        *e.Title,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		Description:  e.Description,
		Type:         task.Type(e.Type),
		Status:       task.Status(e.Status),
		Priority:     task.DefaultPriority,
		Labels:       e.Labels,
		Dependencies: e.Dependencies,
		Notes:        e.Notes,
	}
	if t.Type == "" {
		t.Type = task.TypeTask
	}
	if t.Status == "" {
		t.Status = task.StatusOpen
	}
	if e.Priority != nil {
		t.Priority = *e.Priority
	}
	if e.Assignee != nil {
		t.Assignee = *e.Assignee
	}

	if err := task.ValidateType(t.Type); err != nil {
		return task.Task{}, err
	}
	if err := task.ValidateStatus(t.Status); err != nil {
		return task.Task{}, err
	}
	if err := task.ValidatePriority(t.Priority); err != nil {
		return task.Task{}, err
	}

	if e.ClosedAt != nil {
		closedAt, err := ParseTime(*e.ClosedAt)
		if err != nil {
			return task.Task{}, fmt.Errorf("closed_at: %w", err)
		}
		t.ClosedAt = &closedAt
	}
	normalizeClosedAt(&t)

	t.Normalize()
	return t, nil
}

// normalizeClosedAt makes closed_at agree with status. Older writers keep
// closed_at on reopened tasks and may close a task without stamping it; the
// line still describes the latest state and must win the fold.
func normalizeClosedAt(t *task.Task) {
	switch {
	case t.IsClosed() && t.ClosedAt == nil:
		closedAt := t.UpdatedAt
		t.ClosedAt = &closedAt
	case !t.IsClosed():
		t.ClosedAt = nil
	}
}
