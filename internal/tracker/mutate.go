package tracker

import (
	"context"
	"slices"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// Create assigns a fresh ID to the draft and appends the new task. A nil
// Priority takes the configured default. IDs named as dependencies of the
// draft are never handed out to it.
func (s *Service) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	if d.Priority == nil {
		p := s.defaultPriority
		d.Priority = &p
	}
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}

	snap, err := s.Load(ctx)
	if err != nil {
		return task.Task{}, err
	}

	existing := existingIDs(snap)
	for _, dep := range d.Dependencies {
		existing.Add(dep)
	}

	id, err := s.ids.Next(existing)
	if err != nil {
		return task.Task{}, err
	}
	if slices.Contains(d.Dependencies, id) {
		return task.Task{}, &task.SelfDependencyError{ID: id}
	}

	t := d.Build(id, s.now())
	if err := s.append(ctx, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Update applies cs to the task with the given ID. The changeset is
// validated before anything is read or written.
func (s *Service) Update(ctx context.Context, id string, cs task.Changeset) (task.Task, error) {
	if err := cs.Validate(); err != nil {
		return task.Task{}, err
	}

	snap, err := s.Load(ctx)
	if err != nil {
		return task.Task{}, err
	}

	current, err := lookup(snap, id)
	if err != nil {
		return task.Task{}, err
	}

	next := cs.Apply(current, s.now())
	if err := s.append(ctx, next); err != nil {
		return task.Task{}, err
	}
	return next, nil
}

// Start moves a task to in_progress. A non-empty assignee is set as well.
func (s *Service) Start(ctx context.Context, id, assignee string) (task.Task, error) {
	cs := task.Changeset{Status: task.Ptr(task.StatusInProgress)}
	if assignee != "" {
		cs.Assignee = &assignee
	}
	return s.Update(ctx, id, cs)
}

// Close closes every listed task. Unknown IDs are collected into a
// *PartialFailureError while the others are still closed and persisted.
func (s *Service) Close(ctx context.Context, ids []string) ([]task.Task, error) {
	return s.closeEach(ctx, "close", ids, nil)
}

// CancelNote is the note appended to canceled tasks.
func CancelNote(reason string) string {
	if reason == "" {
		return "Canceled"
	}
	return "Canceled, with reason: " + reason
}

// Cancel closes every listed task and appends a cancel note with the
// optional reason. Failures are reported like Close.
func (s *Service) Cancel(ctx context.Context, ids []string, reason string) ([]task.Task, error) {
	note := CancelNote(reason)
	return s.closeEach(ctx, "cancel", ids, func(t *task.Task) {
		t.AppendNote(note)
	})
}

// CloseReview closes every task waiting in to_review, ordered by ID.
func (s *Service) CloseReview(ctx context.Context) ([]task.Task, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range snap.IDs() {
		if snap.Tasks[id].Status == task.StatusToReview {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []task.Task{}, nil
	}
	return s.closeEach(ctx, "close", ids, nil)
}

func (s *Service) closeEach(ctx context.Context, op string, ids []string, edit func(*task.Task)) ([]task.Task, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var (
		closed = make([]task.Task, 0, len(ids))
		failed []ItemError
		done   = make(map[string]bool, len(ids))
	)

	for _, id := range ids {
		if done[id] {
			continue
		}
		done[id] = true

		current, err := lookup(snap, id)
		if err != nil {
			failed = append(failed, ItemError{ID: id, Err: err})
			continue
		}

		now := s.now()
		next := current.Clone()
		if edit != nil {
			edit(&next)
		}
		next.SetStatus(task.StatusClosed, now)
		next.Touch(now)

		// A storage failure aborts the batch; tasks already appended stay.
		if err := s.append(ctx, next); err != nil {
			return closed, err
		}
		closed = append(closed, next)
	}

	if len(failed) > 0 {
		succeeded := make([]string, len(closed))
		for i, t := range closed {
			succeeded[i] = t.ID
		}
		return closed, &PartialFailureError{Op: op, Succeeded: succeeded, Failed: failed}
	}
	return closed, nil
}

// AddDependency records that id depends on dependsOn. dependsOn does not
// need to exist. It returns changed=false without writing when the
// dependency is already present.
func (s *Service) AddDependency(ctx context.Context, id, dependsOn string) (task.Task, bool, error) {
	if err := task.ValidateID(dependsOn); err != nil {
		return task.Task{}, false, &task.ValidationError{Err: err}
	}
	if id == dependsOn {
		return task.Task{}, false, &task.SelfDependencyError{ID: id}
	}

	return s.editDependencies(ctx, id, func(t *task.Task) bool {
		return t.AddDependency(dependsOn)
	})
}

// RemoveDependency drops dependsOn from the dependencies of id. It returns
// changed=false without writing when the dependency is absent.
func (s *Service) RemoveDependency(ctx context.Context, id, dependsOn string) (task.Task, bool, error) {
	return s.editDependencies(ctx, id, func(t *task.Task) bool {
		return t.RemoveDependency(dependsOn)
	})
}

func (s *Service) editDependencies(ctx context.Context, id string, edit func(*task.Task) bool) (task.Task, bool, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return task.Task{}, false, err
	}

	current, err := lookup(snap, id)
	if err != nil {
		return task.Task{}, false, err
	}

	next := current.Clone()
	if !edit(&next) {
		return current, false, nil
	}
	next.Touch(s.now())

	if err := s.append(ctx, next); err != nil {
		return task.Task{}, false, err
	}
	return next, true, nil
}

// RemoveSelfDependencies strips self-references left by hand edits. It
// returns the IDs of the repaired tasks.
func (s *Service) RemoveSelfDependencies(ctx context.Context) ([]string, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var fixed []string
	for _, id := range snap.IDs() {
		t := snap.Tasks[id]
		if !slices.Contains(t.Dependencies, id) {
			continue
		}

		next := t.Clone()
		next.RemoveDependency(id)
		next.Touch(s.now())
		if err := s.append(ctx, next); err != nil {
			return fixed, err
		}
		fixed = append(fixed, id)
	}
	return fixed, nil
}
