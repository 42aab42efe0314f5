package tracker

import (
	"fmt"
	"strings"
)

// ItemError is the failure of one ID within a batch operation.
type ItemError struct {
	ID  string
	Err error
}

func (e ItemError) Error() string {
	return e.ID + ": " + e.Err.Error()
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// PartialFailureError is returned by batch operations when some IDs failed
// while the others were applied and persisted.
type PartialFailureError struct {
	Op        string
	Succeeded []string
	Failed    []ItemError
}

func (e *PartialFailureError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		msgs[i] = f.Err.Error()
	}
	return fmt.Sprintf("%s: %d of %d failed: %s",
		e.Op, len(e.Failed), len(e.Failed)+len(e.Succeeded), strings.Join(msgs, "; "))
}

// Unwrap exposes every item error so errors.Is(err, task.ErrNotFound)
// reports whether any ID was unknown.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// FailedIDs returns the IDs that were not applied.
func (e *PartialFailureError) FailedIDs() []string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.ID
	}
	return ids
}
