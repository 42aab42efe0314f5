package tracker

import (
	"github.com/colonyops/ticketlog/internal/core/config"
	"github.com/colonyops/ticketlog/internal/core/idgen"
	"github.com/colonyops/ticketlog/internal/store/tasklog"
	"github.com/rs/zerolog"
)

// App is the central entry point for all ticketlog operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Project *config.Project
	Store   *tasklog.Store
	Tasks   *Service
	Doctor  *DoctorService
}

// AppOptions carries the per-invocation settings that are not part of the
// project config.
type AppOptions struct {
	// ProjectErr is the error, if any, hit while resolving Project. Only
	// the doctor reports it; Project then holds the defaults.
	ProjectErr error
	Observe    func(*tasklog.Snapshot)
}

// NewApp wires the store and services for a resolved project.
func NewApp(project *config.Project, opts AppOptions, log zerolog.Logger) *App {
	cfg := project.Config
	store := tasklog.New(project.LogPath(), tasklog.WithStrict(cfg.Strict))

	tasks := NewService(store, Options{
		IDs: idgen.Options{
			Prefix:   cfg.Prefix,
			Strategy: cfg.IDStrategy,
			Length:   cfg.IDLength,
		},
		DefaultPriority: cfg.DefaultPriority,
		Observe:         opts.Observe,
	}, log)

	return &App{
		Project: project,
		Store:   store,
		Tasks:   tasks,
		Doctor:  NewDoctorService(project, opts.ProjectErr, store, tasks),
	}
}
