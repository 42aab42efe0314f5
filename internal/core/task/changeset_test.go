package task

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Build_Defaults(t *testing.T) {
	d := Draft{Title: "  Write docs  ", Labels: []string{"docs", "docs"}}
	require.NoError(t, d.Validate())

	tk := d.Build("tl-abc", t0)
	assert.Equal(t, "tl-abc", tk.ID)
	assert.Equal(t, "Write docs", tk.Title)
	assert.Equal(t, TypeTask, tk.Type)
	assert.Equal(t, StatusOpen, tk.Status)
	assert.Equal(t, DefaultPriority, tk.Priority)
	assert.Equal(t, []string{"docs"}, tk.Labels)
	assert.Equal(t, []string{}, tk.Dependencies)
	assert.Equal(t, t0, tk.CreatedAt)
	assert.Equal(t, t0, tk.UpdatedAt)
	assert.Nil(t, tk.ClosedAt)
}

func TestDraft_Build_ClosedStampsClosedAt(t *testing.T) {
	tk := Draft{Title: "x", Status: StatusClosed}.Build("tl-1", t0)
	require.NotNil(t, tk.ClosedAt)
	assert.Equal(t, t0, *tk.ClosedAt)
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"blank title", Draft{Title: "   "}, "title"},
		{"bad type", Draft{Title: "x", Type: "story"}, "type"},
		{"bad status", Draft{Title: "x", Status: "done"}, "status"},
		{"priority too high", Draft{Title: "x", Priority: Ptr(5)}, "priority"},
		{"priority negative", Draft{Title: "x", Priority: Ptr(-1)}, "priority"},
		{"empty label", Draft{Title: "x", Labels: []string{"ok", " "}}, "labels[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestChangeset_Validate(t *testing.T) {
	assert.NoError(t, Changeset{}.Validate())
	assert.NoError(t, Changeset{Priority: Ptr(0), Status: Ptr(StatusToReview)}.Validate())

	err := Changeset{Priority: Ptr(9), Type: Ptr(Type("nope"))}.Validate()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
}

func TestChangeset_Apply(t *testing.T) {
	base := Draft{Title: "old", Labels: []string{"a", "b"}}.Build("tl-1", t0)
	later := t0.Add(90)

	next := Changeset{
		Title:        Ptr("new"),
		Priority:     Ptr(0),
		Assignee:     Ptr("alice"),
		AddLabels:    []string{"b", "c"},
		RemoveLabels: []string{"a", "zzz"},
	}.Apply(base, later)

	assert.Equal(t, "new", next.Title)
	assert.Equal(t, 0, next.Priority)
	assert.Equal(t, "alice", next.Assignee)
	assert.Equal(t, []string{"b", "c"}, next.Labels)
	assert.Equal(t, later, next.UpdatedAt)
	assert.Equal(t, t0, next.CreatedAt)

	// the original is untouched
	assert.Equal(t, "old", base.Title)
	assert.Equal(t, []string{"a", "b"}, base.Labels)
}

func TestChangeset_Apply_StatusTransitions(t *testing.T) {
	base := Draft{Title: "x"}.Build("tl-1", t0)

	closed := Changeset{Status: Ptr(StatusClosed)}.Apply(base, t0.Add(10))
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, t0.Add(10), *closed.ClosedAt)

	reopened := Changeset{Status: Ptr(StatusOpen)}.Apply(closed, t0.Add(20))
	assert.Nil(t, reopened.ClosedAt)
}

func TestChangeset_IsEmpty(t *testing.T) {
	assert.True(t, Changeset{}.IsEmpty())
	assert.False(t, Changeset{AddLabels: []string{"x"}}.IsEmpty())
	assert.False(t, Changeset{Notes: Ptr("")}.IsEmpty())
}
