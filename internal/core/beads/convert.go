package beads

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/ticketlog/internal/core/task"
)

var statusMap = map[string]task.Status{
	"open":        task.StatusOpen,
	"in_progress": task.StatusInProgress,
	"to_review":   task.StatusToReview,
	"closed":      task.StatusClosed,
}

// MapStatus maps a beads status. Unknown values become open and ok is false.
func MapStatus(s string) (task.Status, bool) {
	if st, ok := statusMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, true
	}
	return task.StatusOpen, false
}

// MapType maps a beads issue type. Unknown values become task and ok is false.
func MapType(s string) (task.Type, bool) {
	t := task.Type(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t, true
	}
	return task.TypeTask, false
}

// ParseTimestamp parses an RFC 3339 timestamp with any offset and returns it
// in UTC at microsecond precision. An empty string yields nil.
func ParseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q", s)
	}
	t = t.UTC().Truncate(time.Microsecond)
	return &t, nil
}

// BuildNotes renders beads metadata that has no task field of its own.
func BuildNotes(createdBy, closeReason string) string {
	var parts []string
	if createdBy != "" {
		parts = append(parts, "Created by: "+createdBy)
	}
	if closeReason != "" {
		parts = append(parts, "Close reason: "+closeReason)
	}
	return strings.Join(parts, "\n")
}

// Convert turns an issue into a task. Recoverable oddities (unknown status
// or type, bad priority) are reported as warnings; a missing id or title or
// an unparsable timestamp is an error.
func Convert(issue Issue, now time.Time) (task.Task, []string, error) {
	var warnings []string

	if strings.TrimSpace(issue.ID) == "" {
		return task.Task{}, nil, fmt.Errorf("missing required field: id")
	}
	if err := task.ValidateID(issue.ID); err != nil {
		return task.Task{}, nil, err
	}
	if strings.TrimSpace(issue.Title) == "" {
		return task.Task{}, nil, fmt.Errorf("missing required field: title")
	}

	status, ok := MapStatus(cmp.Or(issue.Status, "open"))
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown status %q, defaulting to open", issue.Status))
	}

	typ, ok := MapType(cmp.Or(issue.IssueType, "task"))
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown type %q, defaulting to task", issue.IssueType))
	}

	priority, warning := parsePriority(issue.Priority)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	createdAt, err := ParseTimestamp(issue.CreatedAt)
	if err != nil {
		return task.Task{}, nil, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := ParseTimestamp(issue.UpdatedAt)
	if err != nil {
		return task.Task{}, nil, fmt.Errorf("updated_at: %w", err)
	}
	closedAt, err := ParseTimestamp(issue.ClosedAt)
	if err != nil {
		return task.Task{}, nil, fmt.Errorf("closed_at: %w", err)
	}

	if createdAt == nil {
		createdAt = &now
	}
	if updatedAt == nil {
		updatedAt = &now
	}

	t := task.Task{
		ID:          issue.ID,
		Title:       strings.TrimSpace(issue.Title),
		CreatedAt:   *createdAt,
		Description: issue.Description,
		Type:        typ,
		Status:      status,
		Priority:    priority,
		Assignee:    cmp.Or(issue.Owner, issue.Assignee),
		Notes:       BuildNotes(issue.CreatedBy, issue.CloseReason),
	}
	t.Touch(*updatedAt)

	for _, label := range issue.Labels {
		if task.ValidateLabel(label) != nil {
			warnings = append(warnings, fmt.Sprintf("dropped invalid label %q", label))
			continue
		}
		t.Labels = append(t.Labels, strings.TrimSpace(label))
	}

	for _, dep := range issue.Dependencies {
		switch {
		case dep.DependsOnID == "" || dep.DependsOnID == issue.ID:
			continue
		case dep.Type != "" && dep.Type != DependencyBlocks:
			warnings = append(warnings, fmt.Sprintf("ignored %s link to %s", dep.Type, dep.DependsOnID))
		case task.ValidateID(dep.DependsOnID) != nil:
			warnings = append(warnings, fmt.Sprintf("dropped invalid dependency %q", dep.DependsOnID))
		default:
			t.Dependencies = append(t.Dependencies, dep.DependsOnID)
		}
	}

	switch {
	case status == task.StatusClosed && closedAt == nil:
		closed := t.UpdatedAt
		closedAt = &closed
	case status != task.StatusClosed && closedAt != nil:
		warnings = append(warnings, "closed_at ignored for a task that is not closed")
		closedAt = nil
	}
	t.ClosedAt = closedAt

	t.Normalize()
	return t, warnings, nil
}

func parsePriority(raw json.RawMessage) (int, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return task.DefaultPriority, ""
	}

	var p int
	if err := json.Unmarshal(raw, &p); err != nil {
		// beads sometimes writes priorities as strings, e.g. "1" or "P1".
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return task.DefaultPriority, fmt.Sprintf("invalid priority %s, defaulting to %d", raw, task.DefaultPriority)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P"))
		if err != nil {
			return task.DefaultPriority, fmt.Sprintf("invalid priority %q, defaulting to %d", s, task.DefaultPriority)
		}
		p = n
	}

	if task.ValidatePriority(p) != nil {
		return task.DefaultPriority, fmt.Sprintf("priority %d out of range, defaulting to %d", p, task.DefaultPriority)
	}
	return p, ""
}
