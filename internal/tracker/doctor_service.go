package tracker

import (
	"context"

	"github.com/colonyops/ticketlog/internal/core/config"
	"github.com/colonyops/ticketlog/internal/core/doctor"
	"github.com/colonyops/ticketlog/internal/core/graph"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
)

// DoctorService runs health checks on a ticketlog project.
type DoctorService struct {
	project    *config.Project
	projectErr error
	store      *tasklog.Store
	tasks      *Service
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(project *config.Project, projectErr error, store *tasklog.Store, tasks *Service) *DoctorService {
	return &DoctorService{
		project:    project,
		projectErr: projectErr,
		store:      store,
		tasks:      tasks,
	}
}

// RunChecks executes all doctor checks and returns results. The history and
// dependency checks only run when the log could be loaded.
func (d *DoctorService) RunChecks(ctx context.Context, autofix bool) []doctor.Result {
	snap, loadErr := d.store.Load(ctx)

	checks := []doctor.Check{
		doctor.NewConfigCheck(d.project, d.projectErr),
		doctor.NewLogCheck(d.store.Path(), snap, loadErr),
	}

	if loadErr == nil {
		checks = append(checks,
			doctor.NewHistoryCheck(snap, d.project.Config.DeadHistoryThreshold, d.tasks, autofix),
			doctor.NewDependencyCheck(graph.New(snap.Tasks), snap.IDs(), d.tasks, autofix),
		)
	}

	return doctor.RunAll(ctx, checks)
}
