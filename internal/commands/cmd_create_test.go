package commands

import (
	"errors"
	"testing"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("create", "-t", "bug", "-p", "P1", "-a", "ana", "-l", "area/db", "-l", "urgent", "-d", "Steps to reproduce", "Fix", "the", "crash")
	assert.Equal(t, "Created task tl-1\n", out)

	got := h.get("tl-1")
	assert.Equal(t, "Fix the crash", got.Title)
	assert.Equal(t, task.TypeBug, got.Type)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, "ana", got.Assignee)
	assert.Equal(t, []string{"area/db", "urgent"}, got.Labels)
	assert.Equal(t, "Steps to reproduce", got.Description)
	assert.Equal(t, task.StatusOpen, got.Status)
}

func TestCreate_Aliases(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "Created task tl-1\n", h.mustRun("new", "first"))
	assert.Equal(t, "Created task tl-2\n", h.mustRun("add", "--dep", "tl-1", "second"))
	assert.Equal(t, []string{"tl-1"}, h.get("tl-2").Dependencies)
}

func TestCreate_JSON(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("create", "--json", "Write docs")
	got := decodeJSON[map[string]any](t, out)

	assert.Equal(t, "tl-1", got["id"])
	assert.Equal(t, "Write docs", got["title"])
	assert.Equal(t, "open", got["status"])
	assert.InDelta(t, 2, got["priority"], 0)
	assert.Nil(t, got["closed_at"])
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing title", args: []string{"create"}, wantErr: "title is required"},
		{name: "bad priority", args: []string{"create", "-p", "P9", "x"}, wantErr: "P0-P4"},
		{name: "bad type", args: []string{"create", "-t", "story", "x"}, wantErr: `invalid type "story"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoFileExists(t, h.app.Store.Path())
		})
	}
}

func TestShow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "base")
	h.mustRun("create", "-d", "Some *markdown*", "--dep", "tl-1", "--dep", "xx-9", "top")

	out := h.mustRun("show", "tl-2")
	assert.Contains(t, out, "tl-2 top")
	assert.Contains(t, out, "Some *markdown*")
	assert.Contains(t, out, "Depends on")
	assert.Contains(t, out, "tl-1 [P2] base [task]")
	assert.Contains(t, out, "xx-9 (unknown task)")

	out = h.mustRun("show", "tl-1")
	assert.Contains(t, out, "Blocks")
	assert.Contains(t, out, "tl-2 [P2] top [task]")
}

func TestShow_JSON(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "-l", "ui", "base")

	got := decodeJSON[map[string]any](t, h.mustRun("show", "-j", "tl-1"))
	assert.Equal(t, "tl-1", got["id"])
	assert.Equal(t, []any{"ui"}, got["labels"])
}

func TestShow_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("show", "tl-404")
	assert.True(t, errors.Is(err, task.ErrNotFound))
}

func TestUpdate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "-a", "ana", "-l", "old", "draft")

	out := h.mustRun("update", "--title", "final", "-s", "ip", "-p", "0", "--assignee", "", "--add-label", "new", "--remove-label", "old", "tl-1")
	assert.Equal(t, "Updated task tl-1\n", out)

	got := h.get("tl-1")
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, task.StatusInProgress, got.Status)
	assert.Equal(t, 0, got.Priority)
	assert.Empty(t, got.Assignee)
	assert.Equal(t, []string{"new"}, got.Labels)
}

func TestUpdate_Errors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "draft")

	_, err := h.run("update", "tl-1")
	require.ErrorContains(t, err, "nothing to update")

	_, err = h.run("update", "-s", "blocked", "tl-1")
	var verr *task.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = h.run("update", "--title", "x", "tl-404")
	assert.True(t, errors.Is(err, task.ErrNotFound))
}

func TestStart(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "a")
	h.mustRun("create", "b")

	assert.Equal(t, "Started task tl-1 (assigned to ana)\n", h.mustRun("start", "-a", "ana", "tl-1"))
	assert.Equal(t, "Started task tl-2\n", h.mustRun("start", "tl-2"))

	got := h.get("tl-1")
	assert.Equal(t, task.StatusInProgress, got.Status)
	assert.Equal(t, "ana", got.Assignee)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "ticketlog 1.2.3\n", h.mustRun("version"))

	got := decodeJSON[map[string]string](t, h.mustRun("version", "--json"))
	assert.Equal(t, map[string]string{"version": "1.2.3"}, got)
}

func TestToleratesBrokenConfig(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{command: "", want: true},
		{command: "version", want: true},
		{command: "help", want: true},
		{command: "doctor", want: true},
		{command: "init", want: true},
		{command: "create", want: false},
		{command: "list", want: false},
		{command: "clean", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, ToleratesBrokenConfig(tt.command))
		})
	}
}
