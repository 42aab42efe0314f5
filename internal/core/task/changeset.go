package task

import (
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// Draft holds the caller-supplied fields of a task that does not exist yet.
// Zero values select defaults: Type task, Status open, Priority
// DefaultPriority when nil.
type Draft struct {
	Title        string
	Description  string
	Type         Type
	Status       Status
	Priority     *int
	Assignee     string
	Labels       []string
	Dependencies []string
	Notes        string
}

func (d Draft) withDefaults() Draft {
	if d.Type == "" {
		d.Type = TypeTask
	}
	if d.Status == "" {
		d.Status = StatusOpen
	}
	if d.Priority == nil {
		p := DefaultPriority
		d.Priority = &p
	}
	return d
}

// Validate rejects the draft with a *ValidationError when any field is invalid.
func (d Draft) Validate() error {
	d = d.withDefaults()
	return wrap(criterio.ValidateStruct(
		criterio.Run("title", d.Title, ValidateTitle),
		criterio.Run("type", d.Type, ValidateType),
		criterio.Run("status", d.Status, ValidateStatus),
		criterio.Run("priority", *d.Priority, ValidatePriority),
		validateList("labels", d.Labels, ValidateLabel),
		validateList("dependencies", d.Dependencies, ValidateID),
	))
}

// Build creates the first version of a task. The draft must already be
// valid and must not list id among its dependencies.
func (d Draft) Build(id string, now time.Time) Task {
	d = d.withDefaults()
	t := Task{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		CreatedAt:    now,
		UpdatedAt:    now,
		Description:  d.Description,
		Type:         d.Type,
		Priority:     *d.Priority,
		Assignee:     d.Assignee,
		Labels:       trimAll(d.Labels),
		Dependencies: slices.Clone(d.Dependencies),
		Notes:        d.Notes,
	}
	t.SetStatus(d.Status, now)
	t.Normalize()
	return t
}

// Changeset describes an update to an existing task. Every nil field is left
// untouched. Labels are added before they are removed.
type Changeset struct {
	Title        *string
	Description  *string
	Type         *Type
	Status       *Status
	Priority     *int
	Assignee     *string
	Notes        *string
	AddLabels    []string
	RemoveLabels []string
}

// IsEmpty reports whether the changeset changes nothing.
func (c Changeset) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Type == nil &&
		c.Status == nil && c.Priority == nil && c.Assignee == nil &&
		c.Notes == nil && len(c.AddLabels) == 0 && len(c.RemoveLabels) == 0
}

// Validate rejects the changeset with a *ValidationError when any field is invalid.
func (c Changeset) Validate() error {
	var errs []error
	if c.Title != nil {
		errs = append(errs, criterio.Run("title", *c.Title, ValidateTitle))
	}
	if c.Type != nil {
		errs = append(errs, criterio.Run("type", *c.Type, ValidateType))
	}
	if c.Status != nil {
		errs = append(errs, criterio.Run("status", *c.Status, ValidateStatus))
	}
	if c.Priority != nil {
		errs = append(errs, criterio.Run("priority", *c.Priority, ValidatePriority))
	}
	errs = append(errs,
		validateList("add_labels", c.AddLabels, ValidateLabel),
		validateList("remove_labels", c.RemoveLabels, ValidateLabel),
	)
	return wrap(criterio.ValidateStruct(errs...))
}

// Apply returns a copy of t with the changes applied and UpdatedAt set to
// now. The changeset must already be valid.
func (c Changeset) Apply(t Task, now time.Time) Task {
	next := t.Clone()
	if c.Title != nil {
		next.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		next.Description = *c.Description
	}
	if c.Type != nil {
		next.Type = *c.Type
	}
	if c.Priority != nil {
		next.Priority = *c.Priority
	}
	if c.Assignee != nil {
		next.Assignee = *c.Assignee
	}
	if c.Notes != nil {
		next.Notes = *c.Notes
	}
	for _, label := range trimAll(c.AddLabels) {
		if !next.HasLabel(label) {
			next.Labels = append(next.Labels, label)
		}
	}
	for _, label := range trimAll(c.RemoveLabels) {
		next.Labels = slices.DeleteFunc(next.Labels, func(l string) bool { return l == label })
	}
	if c.Status != nil {
		next.SetStatus(*c.Status, now)
	}
	next.Touch(now)
	return next
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// Ptr returns a pointer to v. It keeps changeset literals short.
func Ptr[T any](v T) *T {
	return &v
}
