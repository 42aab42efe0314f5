package task

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("task not found")

// NotFoundError is returned when an operation references an unknown task ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError is returned when a field value is rejected. Nothing has
// been mutated or appended when it is returned. Err is usually a
// criterio.FieldErrors describing each offending field.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid task: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SelfDependencyError is returned when a task is declared to depend on itself.
type SelfDependencyError struct {
	ID string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on itself", e.ID)
}
