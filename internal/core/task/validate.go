package task

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidateTitle requires a non-blank title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// ValidatePriority requires a priority within [MinPriority, MaxPriority].
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("priority %d out of range, must be %d-%d", p, MinPriority, MaxPriority)
	}
	return nil
}

// ValidateType requires a known task type.
func ValidateType(t Type) error {
	if !t.IsValid() {
		return fmt.Errorf("invalid type %q: must be one of %s", t, joinValues(Types()))
	}
	return nil
}

// ValidateStatus requires a known status.
func ValidateStatus(s Status) error {
	if !s.IsValid() {
		return fmt.Errorf("invalid status %q: must be one of %s", s, joinValues(Statuses()))
	}
	return nil
}

// ValidateLabel requires a non-blank label without commas.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if strings.Contains(label, ",") {
		return fmt.Errorf("label %q cannot contain a comma", label)
	}
	return nil
}

// ValidateID requires a non-blank identifier without whitespace.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("id %q cannot contain whitespace", id)
	}
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func validateList(field string, values []string, fn func(string) error) error {
	var errs criterio.FieldErrorsBuilder
	for i, v := range values {
		if err := fn(v); err != nil {
			errs = errs.Append(fmt.Sprintf("%s[%d]", field, i), err)
		}
	}
	return errs.ToError()
}

// wrap converts a criterio result into a *ValidationError.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
