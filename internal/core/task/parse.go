package task

import (
	"fmt"
	"strconv"
	"strings"
)

var statusShortcuts = map[string]Status{
	"o":           StatusOpen,
	"open":        StatusOpen,
	"ip":          StatusInProgress,
	"wip":         StatusInProgress,
	"progress":    StatusInProgress,
	"in_progress": StatusInProgress,
	"tr":          StatusToReview,
	"review":      StatusToReview,
	"to_review":   StatusToReview,
	"c":           StatusClosed,
	"done":        StatusClosed,
	"closed":      StatusClosed,
}

var typeShortcuts = map[string]Type{
	"t":       TypeTask,
	"task":    TypeTask,
	"b":       TypeBug,
	"bug":     TypeBug,
	"f":       TypeFeature,
	"feat":    TypeFeature,
	"feature": TypeFeature,
	"e":       TypeEpic,
	"epic":    TypeEpic,
	"c":       TypeChore,
	"chore":   TypeChore,
}

// ParseStatus resolves a status name or shortcut such as "wip" or "done".
// Unrecognized input is returned as is so validation can report it.
func ParseStatus(s string) Status {
	if st, ok := statusShortcuts[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return Status(s)
}

// ParseType resolves a type name or shortcut such as "b" or "feat".
// Unrecognized input is returned as is so validation can report it.
func ParseType(s string) Type {
	if t, ok := typeShortcuts[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Type(s)
}

// ParsePriority accepts 0-4 or P0-P4.
func ParsePriority(s string) (int, error) {
	v := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P")
	p, err := strconv.Atoi(v)
	if err != nil || ValidatePriority(p) != nil {
		return 0, fmt.Errorf("invalid priority %q: must be %d-%d or P%d-P%d", s, MinPriority, MaxPriority, MinPriority, MaxPriority)
	}
	return p, nil
}

// FormatPriority renders a priority as P0-P4.
func FormatPriority(p int) string {
	return "P" + strconv.Itoa(p)
}
