package tasklog

import (
	"strings"
	"testing"
	"time"

	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

func sampleTask() task.Task {
	return task.Task{
		ID:           "tl-a1b",
		Title:        "Write the codec",
		CreatedAt:    testTime,
		UpdatedAt:    testTime.Add(time.Minute),
		Description:  "one <line> & more",
		Type:         task.TypeFeature,
		Status:       task.StatusOpen,
		Priority:     1,
		Labels:       []string{"backend", "storage"},
		Dependencies: []string{"tl-000"},
	}
}

func TestEncode_KeyOrderAndNulls(t *testing.T) {
	line, err := Encode(sampleTask())
	require.NoError(t, err)

	want := `{"id":"tl-a1b","title":"Write the codec","created_at":"2025-03-14T09:26:53.589793Z",` +
		`"updated_at":"2025-03-14T09:27:53.589793Z","description":"one <line> & more","type":"feature",` +
		`"status":"open","priority":1,"assignee":null,"labels":["backend","storage"],"closed_at":null,` +
		`"dependencies":["tl-000"],"notes":""}`
	assert.Equal(t, want, string(line))
	assert.NotContains(t, string(line), "\n")
}

func TestEncode_EmptyCollections(t *testing.T) {
	tk := sampleTask()
	tk.Labels = nil
	tk.Dependencies = nil

	line, err := Encode(tk)
	require.NoError(t, err)
	assert.Contains(t, string(line), `"labels":[]`)
	assert.Contains(t, string(line), `"dependencies":[]`)
}

func TestDecode_Defaults(t *testing.T) {
	raw := `{"id":"tl-1","title":"Minimal","created_at":"2024-01-01T12:00:00Z","updated_at":"2024-01-01T12:00:00Z"}`

	got, err := Decode(1, []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "tl-1", got.ID)
	assert.Equal(t, task.TypeTask, got.Type)
	assert.Equal(t, task.StatusOpen, got.Status)
	assert.Equal(t, task.DefaultPriority, got.Priority)
	assert.Empty(t, got.Assignee)
	assert.NotNil(t, got.Labels)
	assert.NotNil(t, got.Dependencies)
	assert.Nil(t, got.ClosedAt)
}

func TestDecode_LegacyTimestamps(t *testing.T) {
	raw := `{"id":"tl-1","title":"Old","created_at":"2024-01-01T12:00:00.123456","updated_at":"2024-01-01T12:00:00.123456Z"}`

	got, err := Decode(1, []byte(raw))
	require.NoError(t, err)

	want := time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.UTC)
	assert.True(t, got.CreatedAt.Equal(want))
	assert.True(t, got.UpdatedAt.Equal(want))
}

func TestDecode_IgnoresUnknownKeys(t *testing.T) {
	raw := `{"id":"tl-1","title":"x","created_at":"2024-01-01T12:00:00Z","updated_at":"2024-01-01T12:00:00Z","estimate":5}`

	_, err := Decode(1, []byte(raw))
	assert.NoError(t, err)
}

func TestDecode_Errors(t *testing.T) {
	const stamps = `"created_at":"2024-01-01T12:00:00Z","updated_at":"2024-01-01T12:00:00Z"`

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "not json", raw: `{"id":"tl-1","tit`, wantErr: "invalid json"},
		{name: "missing id", raw: `{"title":"x",` + stamps + `}`, wantErr: "missing required keys: id"},
		{name: "missing title and stamps", raw: `{"id":"tl-1"}`, wantErr: "title, created_at, updated_at"},
		{name: "bad timestamp", raw: `{"id":"tl-1","title":"x","created_at":"yesterday","updated_at":"2024-01-01T12:00:00Z"}`, wantErr: "created_at"},
		{name: "bad status", raw: `{"id":"tl-1","title":"x",` + stamps + `,"status":"done"}`, wantErr: "invalid status"},
		{name: "bad type", raw: `{"id":"tl-1","title":"x",` + stamps + `,"type":"story"}`, wantErr: "invalid type"},
		{name: "priority out of range", raw: `{"id":"tl-1","title":"x",` + stamps + `,"priority":7}`, wantErr: "out of range"},
		{name: "bad closed_at", raw: `{"id":"tl-1","title":"x",` + stamps + `,"status":"closed","closed_at":"soon"}`, wantErr: "closed_at"},
		{name: "blank id", raw: `{"id":" ","title":"x",` + stamps + `}`, wantErr: "id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(7, []byte(tt.raw))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, 7, decodeErr.Line)
			assert.Equal(t, tt.raw, decodeErr.Raw)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, strings.HasPrefix(err.Error(), "line 7: "))
		})
	}
}

func TestDecode_NormalizesClosedAt(t *testing.T) {
	const stamps = `"created_at":"2024-01-01T12:00:00Z","updated_at":"2024-01-02T08:30:00Z"`
	updated := time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)
	closed := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		raw          string
		wantStatus   task.Status
		wantClosedAt *time.Time
	}{
		{
			name:       "reopened keeps stale closed_at",
			raw:        `{"id":"tl-1","title":"x",` + stamps + `,"status":"open","closed_at":"2024-01-01T18:00:00Z"}`,
			wantStatus: task.StatusOpen,
		},
		{
			name:       "in progress with closed_at",
			raw:        `{"id":"tl-1","title":"x",` + stamps + `,"status":"in_progress","closed_at":"2024-01-01T18:00:00Z"}`,
			wantStatus: task.StatusInProgress,
		},
		{
			name:         "closed without closed_at uses updated_at",
			raw:          `{"id":"tl-1","title":"x",` + stamps + `,"status":"closed","closed_at":null}`,
			wantStatus:   task.StatusClosed,
			wantClosedAt: &updated,
		},
		{
			name:         "closed with closed_at is kept",
			raw:          `{"id":"tl-1","title":"x",` + stamps + `,"status":"closed","closed_at":"2024-01-01T18:00:00Z"}`,
			wantStatus:   task.StatusClosed,
			wantClosedAt: &closed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(1, []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			if tt.wantClosedAt == nil {
				assert.Nil(t, got.ClosedAt)
				return
			}
			require.NotNil(t, got.ClosedAt)
			assert.True(t, tt.wantClosedAt.Equal(*got.ClosedAt), "closed_at = %v, want %v", got.ClosedAt, tt.wantClosedAt)
		})
	}
}

func genTime() *rapid.Generator[time.Time] {
	return rapid.Custom(func(t *rapid.T) time.Time {
		sec := rapid.Int64Range(0, 4_102_444_800).Draw(t, "sec")
		usec := rapid.Int64Range(0, 999_999).Draw(t, "usec")
		return time.Unix(sec, usec*1000).UTC()
	})
}

func genTask() *rapid.Generator[task.Task] {
	return rapid.Custom(func(t *rapid.T) task.Task {
		created := genTime().Draw(t, "created")
		updated := created.Add(time.Duration(rapid.Int64Range(0, 1e15).Draw(t, "delta")) * time.Microsecond)

		tk := task.Task{
			ID:           rapid.StringMatching(`[a-z]{1,4}-[a-z0-9]{1,5}`).Draw(t, "id"),
			Title:        rapid.String().Draw(t, "title"),
			CreatedAt:    created,
			UpdatedAt:    updated,
			Description:  rapid.String().Draw(t, "description"),
			Type:         rapid.SampledFrom(task.Types()).Draw(t, "type"),
			Priority:     rapid.IntRange(task.MinPriority, task.MaxPriority).Draw(t, "priority"),
			Assignee:     rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "assignee"),
			Labels:       rapid.SliceOfDistinct(rapid.StringMatching(`[a-z][a-z0-9/_-]{0,10}`), rapid.ID[string]).Draw(t, "labels"),
			Dependencies: rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,4}-[a-z0-9]{1,5}`), rapid.ID[string]).Draw(t, "deps"),
			Notes:        rapid.String().Draw(t, "notes"),
		}
		tk.SetStatus(rapid.SampledFrom(task.Statuses()).Draw(t, "status"), updated)
		return tk
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := genTask().Draw(t, "task")

		line, err := Encode(in)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if strings.Contains(string(line), "\n") {
			t.Fatalf("encoded line contains a newline: %q", line)
		}

		out, err := Decode(1, line)
		if err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}

		again, err := Encode(out)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if string(again) != string(line) {
			t.Fatalf("round trip changed the line:\n%s\n%s", line, again)
		}
		if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
			t.Fatalf("timestamps changed: %v/%v -> %v/%v", in.CreatedAt, in.UpdatedAt, out.CreatedAt, out.UpdatedAt)
		}
		if out.Title != in.Title || out.Assignee != in.Assignee || out.Status != in.Status {
			t.Fatalf("fields changed: %+v -> %+v", in, out)
		}
	})
}
