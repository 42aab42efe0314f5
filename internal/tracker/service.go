// Package tracker implements the task operations on top of the task log:
// every mutation loads the current state, validates, and appends a new full
// entry for each changed task.
package tracker

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/colonyops/ticketlog/internal/core/graph"
	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/colonyops/ticketlog/internal/core/task"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
	"github.com/rs/zerolog"
)

// Store is the persistence the service needs. *tasklog.Store implements it.
type Store interface {
	Load(ctx context.Context) (*tasklog.Snapshot, error)
	Append(ctx context.Context, t task.Task) error
	Compact(ctx context.Context, opts tasklog.CompactOptions) (tasklog.CompactResult, error)
}

// Options configures a Service.
type Options struct {
	IDs             idgen.Options
	DefaultPriority int
	Clock           func() time.Time // defaults to task.Now

	// Observe, when set, is called with every snapshot the service loads.
	Observe func(*tasklog.Snapshot)
}

// Service performs task operations against a Store. It holds no state
// between calls; every call reads the log afresh.
type Service struct {
	store           Store
	ids             *idgen.Generator
	defaultPriority int
	now             func() time.Time
	observe         func(*tasklog.Snapshot)
	log             zerolog.Logger
}

// NewService creates a new Service.
func NewService(store Store, opts Options, log zerolog.Logger) *Service {
	now := opts.Clock
	if now == nil {
		now = task.Now
	}
	return &Service{
		store:           store,
		ids:             idgen.New(opts.IDs),
		defaultPriority: opts.DefaultPriority,
		now:             now,
		observe:         opts.Observe,
		log:             log.With().Str("component", "tracker").Logger(),
	}
}

// Load returns the current state of every task.
func (s *Service) Load(ctx context.Context) (*tasklog.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if s.observe != nil {
		s.observe(snap)
	}
	return snap, nil
}

// Get returns the current state of one task.
func (s *Service) Get(ctx context.Context, id string) (task.Task, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return task.Task{}, err
	}
	return lookup(snap, id)
}

func lookup(snap *tasklog.Snapshot, id string) (task.Task, error) {
	t, ok := snap.Get(id)
	if !ok {
		return task.Task{}, &task.NotFoundError{ID: id}
	}
	return t, nil
}

// Filter selects tasks for List. Empty fields match everything.
type Filter struct {
	// Statuses to include. When empty, open and in_progress tasks are
	// listed unless All is set.
	Statuses []task.Status
	Types    []task.Type
	Assignee string
	// Labels are glob patterns; a task matches when every pattern matches
	// at least one of its labels.
	Labels []string
	All    bool
}

// DefaultStatuses are listed when a Filter names no statuses.
var DefaultStatuses = []task.Status{task.StatusOpen, task.StatusInProgress}

// List returns the tasks matching f ordered by priority, then ID.
func (s *Service) List(ctx context.Context, f Filter) ([]task.Task, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	m, err := newMatcher(f)
	if err != nil {
		return nil, err
	}

	var out []task.Task
	for _, t := range snap.Tasks {
		if m.match(t) {
			out = append(out, t)
		}
	}

	slices.SortFunc(out, byPriorityThenID)
	return out, nil
}

func byPriorityThenID(a, b task.Task) int {
	return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.ID, b.ID))
}

// Ready returns the open tasks whose known dependencies are all closed,
// most urgent first.
func (s *Service) Ready(ctx context.Context) ([]task.Task, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return graph.New(snap.Tasks).ReadySet(), nil
}

// DependencyInfo describes the dependency neighborhood of one task.
type DependencyInfo struct {
	Task      task.Task   `json:"-"`
	TaskID    string      `json:"task_id"`
	DependsOn []string    `json:"depends_on"`
	Blocks    []string    `json:"blocks"`
	Dangling  []string    `json:"dangling"`
	Known     []task.Task `json:"-"` // resolved DependsOn entries
	Blocked   []task.Task `json:"-"` // tasks in Blocks
}

// Dependencies returns what id depends on and what depends on id.
func (s *Service) Dependencies(ctx context.Context, id string) (DependencyInfo, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return DependencyInfo{}, err
	}

	t, err := lookup(snap, id)
	if err != nil {
		return DependencyInfo{}, err
	}

	g := graph.New(snap.Tasks)
	dependents := g.DependentsOf(id)

	info := DependencyInfo{
		Task:      t,
		TaskID:    t.ID,
		DependsOn: slices.Clone(t.Dependencies),
		Blocks:    make([]string, 0, len(dependents)),
		Dangling:  g.Dangling(t),
		Known:     g.DependenciesOf(t),
		Blocked:   dependents,
	}
	for _, d := range dependents {
		info.Blocks = append(info.Blocks, d.ID)
	}
	if info.Dangling == nil {
		info.Dangling = []string{}
	}
	return info, nil
}

// Compact rewrites the log with one entry per task.
func (s *Service) Compact(ctx context.Context, opts tasklog.CompactOptions) (tasklog.CompactResult, error) {
	result, err := s.store.Compact(ctx, opts)
	if err != nil {
		return tasklog.CompactResult{}, fmt.Errorf("compact log: %w", err)
	}
	s.log.Debug().Ctx(ctx).
		Int("original_lines", result.OriginalLines).
		Int("new_lines", result.NewLines).
		Msg("compacted log")
	return result, nil
}

// existingIDs seeds the generator with every ID that is or was referenced,
// including dangling dependencies and IDs on unreadable lines.
func existingIDs(snap *tasklog.Snapshot) idgen.Set {
	set := idgen.NewSet(snap.ReferencedIDs()...)
	for _, id := range unreadableIDs(snap) {
		set.Add(id)
	}
	return set
}

// unreadableIDs returns the IDs that can still be recovered from lines that
// failed to decode.
func unreadableIDs(snap *tasklog.Snapshot) []string {
	var ids []string
	for _, skipped := range snap.Skipped {
		var probe struct {
			ID string `json:"id"`
		}
		if json.Unmarshal([]byte(skipped.Raw), &probe) == nil && probe.ID != "" {
			ids = append(ids, probe.ID)
		}
	}
	return ids
}

func (s *Service) append(ctx context.Context, t task.Task) error {
	if err := s.store.Append(ctx, t); err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	s.log.Debug().Ctx(ctx).Str("task_id", t.ID).Str("status", string(t.Status)).Msg("appended task")
	return nil
}
