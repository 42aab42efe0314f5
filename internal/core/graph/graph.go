// Package graph answers dependency questions over a set of tasks: what a
// task waits on, what waits on it, and which tasks are ready to start.
//
// Dependencies that name an unknown task ("dangling") never block. Cycles
// are allowed in the data and only reported through Cycles.
package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// Graph is a read-only view over a task mapping. Build a new Graph after
// the mapping changes.
type Graph struct {
	tasks      map[string]task.Task
	dependents map[string][]string
}

// New indexes tasks. The map is not copied and must not be modified while
// the graph is in use.
func New(tasks map[string]task.Task) *Graph {
	g := &Graph{
		tasks:      tasks,
		dependents: make(map[string][]string),
	}

	for _, id := range slices.Sorted(maps.Keys(tasks)) {
		for _, dep := range tasks[id].Dependencies {
			g.dependents[dep] = append(g.dependents[dep], id)
		}
	}
	return g
}

// Get returns the task with the given ID.
func (g *Graph) Get(id string) (task.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// DependenciesOf returns the known tasks t depends on, in declaration order.
func (g *Graph) DependenciesOf(t task.Task) []task.Task {
	out := make([]task.Task, 0, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		if d, ok := g.tasks[dep]; ok {
			out = append(out, d)
		}
	}
	return out
}

// DependentsOf returns the tasks that declare a dependency on id, ordered
// by ID. id does not need to be a known task.
func (g *Graph) DependentsOf(id string) []task.Task {
	ids := g.dependents[id]
	out := make([]task.Task, 0, len(ids))
	for _, dep := range ids {
		out = append(out, g.tasks[dep])
	}
	return out
}

// Blockers returns the known dependencies of t that are not closed.
func (g *Graph) Blockers(t task.Task) []task.Task {
	var out []task.Task
	for _, d := range g.DependenciesOf(t) {
		if !d.IsClosed() {
			out = append(out, d)
		}
	}
	return out
}

// Dangling returns the dependency IDs of t that do not name a known task.
func (g *Graph) Dangling(t task.Task) []string {
	var out []string
	for _, dep := range t.Dependencies {
		if _, ok := g.tasks[dep]; !ok {
			out = append(out, dep)
		}
	}
	return out
}

// IsReady reports whether t is open and every known dependency is closed.
func (g *Graph) IsReady(t task.Task) bool {
	if t.Status != task.StatusOpen {
		return false
	}
	for _, dep := range t.Dependencies {
		if d, ok := g.tasks[dep]; ok && !d.IsClosed() {
			return false
		}
	}
	return true
}

// ReadySet returns every ready task, most urgent first: by priority, then
// oldest created_at, then ID.
func (g *Graph) ReadySet() []task.Task {
	var out []task.Task
	for _, t := range g.tasks {
		if g.IsReady(t) {
			out = append(out, t)
		}
	}
	SortByUrgency(out)
	return out
}

// SortByUrgency orders tasks by priority, created_at, then ID.
func SortByUrgency(tasks []task.Task) {
	slices.SortFunc(tasks, func(a, b task.Task) int {
		return cmp.Or(
			cmp.Compare(a.Priority, b.Priority),
			a.CreatedAt.Compare(b.CreatedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// Cycles returns the dependency cycles among known tasks found by a
// depth-first walk. Every task that sits on a cycle appears in at least one
// result. Each cycle is rotated so its smallest ID comes first. A
// self-dependency is a cycle of length one.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = iota
		onStack
		done
	)

	state := make(map[string]int, len(g.tasks))
	var (
		stack  []string
		seen   = make(map[string]struct{})
		cycles [][]string
	)

	var visit func(id string)
	visit = func(id string) {
		state[id] = onStack
		stack = append(stack, id)

		for _, dep := range g.tasks[id].Dependencies {
			if _, ok := g.tasks[dep]; !ok {
				continue
			}
			switch state[dep] {
			case unvisited:
				visit(dep)
			case onStack:
				start := slices.Index(stack, dep)
				cycle := canonical(stack[start:])
				k := joinKey(cycle)
				if _, dup := seen[k]; !dup {
					seen[k] = struct{}{}
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, id := range slices.Sorted(maps.Keys(g.tasks)) {
		if state[id] == unvisited {
			visit(id)
		}
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return cycles
}

// canonical rotates a cycle so the smallest ID comes first.
func canonical(cycle []string) []string {
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	return slices.Concat(cycle[minIdx:], cycle[:minIdx])
}

func joinKey(ids []string) string {
	n := 0
	for _, id := range ids {
		n += len(id) + 1
	}
	b := make([]byte, 0, n)
	for _, id := range ids {
		b = append(b, id...)
		b = append(b, 0)
	}
	return string(b)
}
