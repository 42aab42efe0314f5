package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/colonyops/ticketlog/internal/core/config"
	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/tracker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// harness runs tl commands against a project in a temporary directory.
type harness struct {
	t      *testing.T
	dir    string
	flags  *Flags
	app    *tracker.App
	notice bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.IDStrategy = idgen.StrategySequential

	h := &harness{t: t, dir: dir}
	h.flags = &Flags{Dir: dir, Notices: NewNotices(&h.notice, cfg.DeadHistoryThreshold)}
	h.app = tracker.NewApp(
		&config.Project{Config: &cfg, Root: dir},
		tracker.AppOptions{Observe: h.flags.Notices.Observe},
		zerolog.Nop(),
	)
	return h
}

// run executes tl with args and returns what was written to stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	var buf bytes.Buffer
	root := &cli.Command{
		Name:           "tl",
		Writer:         &buf,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	RegisterAll(root, h.flags, h.app, "1.2.3")

	err := root.Run(context.Background(), append([]string{"tl"}, args...))
	return buf.String(), err
}

// mustRun is run that fails the test on error.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "tl %v", args)
	return out
}

func (h *harness) get(id string) task.Task {
	h.t.Helper()
	got, err := h.app.Tasks.Get(context.Background(), id)
	require.NoError(h.t, err)
	return got
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
