package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/ticketlog/internal/core/graph"
)

// SelfDependencyFixer removes self-references from tasks.
type SelfDependencyFixer interface {
	RemoveSelfDependencies(ctx context.Context) ([]string, error)
}

// DependencyCheck reports dangling references, cycles, and tasks that
// depend on themselves. Only self-dependencies are fixed automatically.
type DependencyCheck struct {
	graph   *graph.Graph
	ids     []string
	fixer   SelfDependencyFixer
	autofix bool
}

// NewDependencyCheck creates a dependency check over g. ids lists the task
// IDs to inspect in report order.
func NewDependencyCheck(g *graph.Graph, ids []string, fixer SelfDependencyFixer, autofix bool) *DependencyCheck {
	return &DependencyCheck{graph: g, ids: ids, fixer: fixer, autofix: autofix}
}

func (c *DependencyCheck) Name() string {
	return "Dependencies"
}

func (c *DependencyCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	var selfDeps []string
	for _, id := range c.ids {
		t, _ := c.graph.Get(id)
		if t.HasDependency(id) {
			selfDeps = append(selfDeps, id)
		}
		if dangling := c.graph.Dangling(t); len(dangling) > 0 {
			result.Items = append(result.Items, CheckItem{
				Label:  id,
				Status: StatusWarn,
				Detail: "depends on unknown task(s) " + strings.Join(dangling, ", ") + " (not blocking)",
			})
		}
	}

	var cycles int
	for _, cycle := range c.graph.Cycles() {
		if len(cycle) == 1 {
			continue // reported as a self-dependency below
		}
		cycles++
		result.Items = append(result.Items, CheckItem{
			Label:  "cycle",
			Status: StatusWarn,
			Detail: strings.Join(append(cycle, cycle[0]), " -> "),
		})
	}

	if len(selfDeps) > 0 {
		result.Items = append(result.Items, c.selfDependencyItem(ctx, selfDeps))
	}

	if len(result.Items) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "graph",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d tasks, no dangling references or cycles", len(c.ids)),
		})
	} else if cycles == 0 && len(selfDeps) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "cycles",
			Status: StatusPass,
			Detail: "none",
		})
	}

	return result
}

func (c *DependencyCheck) selfDependencyItem(ctx context.Context, ids []string) CheckItem {
	if c.autofix && c.fixer != nil {
		fixed, err := c.fixer.RemoveSelfDependencies(ctx)
		if err != nil {
			return CheckItem{
				Label:  "self dependencies",
				Status: StatusFail,
				Detail: fmt.Sprintf("fix failed: %v", err),
			}
		}
		return CheckItem{
			Label:  "self dependencies",
			Status: StatusPass,
			Detail: "removed from " + strings.Join(fixed, ", "),
		}
	}

	return CheckItem{
		Label:   "self dependencies",
		Status:  StatusFail,
		Detail:  strings.Join(ids, ", ") + " depend(s) on itself",
		Fixable: true,
	}
}
