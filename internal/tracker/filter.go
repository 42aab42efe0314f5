package tracker

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/hay-kot/criterio"
)

type matcher struct {
	statuses []task.Status
	types    []task.Type
	assignee string
	labels   []string
}

func newMatcher(f Filter) (*matcher, error) {
	var errs criterio.FieldErrorsBuilder
	for i, s := range f.Statuses {
		if err := task.ValidateStatus(s); err != nil {
			errs = errs.Append(fmt.Sprintf("status[%d]", i), err)
		}
	}
	for i, t := range f.Types {
		if err := task.ValidateType(t); err != nil {
			errs = errs.Append(fmt.Sprintf("type[%d]", i), err)
		}
	}
	for i, pattern := range f.Labels {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("label[%d]", i), fmt.Errorf("invalid label pattern %q", pattern))
		}
	}
	if err := errs.ToError(); err != nil {
		return nil, &task.ValidationError{Err: err}
	}

	m := &matcher{
		statuses: f.Statuses,
		types:    f.Types,
		assignee: f.Assignee,
		labels:   f.Labels,
	}
	if len(m.statuses) == 0 && !f.All {
		m.statuses = DefaultStatuses
	}
	return m, nil
}

func (m *matcher) match(t task.Task) bool {
	if len(m.statuses) > 0 && !slices.Contains(m.statuses, t.Status) {
		return false
	}
	if len(m.types) > 0 && !slices.Contains(m.types, t.Type) {
		return false
	}
	if m.assignee != "" && t.Assignee != m.assignee {
		return false
	}
	for _, pattern := range m.labels {
		if !slices.ContainsFunc(t.Labels, func(label string) bool {
			ok, _ := doublestar.Match(pattern, label)
			return ok
		}) {
			return false
		}
	}
	return true
}
