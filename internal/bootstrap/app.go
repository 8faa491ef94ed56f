// Package bootstrap wires configuration, storage and the sync pipeline into a runnable
// application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pruthviraj-chavan/happytools1/internal/api"
	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/config"
	"github.com/pruthviraj-chavan/happytools1/internal/database"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/metrics"
	"github.com/pruthviraj-chavan/happytools1/internal/syncer"
)

// Options select how the application is assembled.
type Options struct {
	// Memory keeps the catalog in process instead of Elasticsearch.
	Memory bool
}

// App holds every long-lived component.
type App struct {
	Config       *config.Config
	Log          logger.Logger
	Store        catalog.Store
	Orchestrator *syncer.Orchestrator
	Registry     *prometheus.Registry
	// Runs is nil when no database is configured.
	Runs *database.SyncRunRepository

	checks  map[string]api.HealthCheck
	closers []func() error
}

// New builds the application. Elasticsearch is required unless opts.Memory is set;
// Postgres and Redis are used only when configured.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*App, error) {
	app := &App{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
		checks:   make(map[string]api.HealthCheck),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Phase 1: catalog store
	if err := app.setupStore(ctx, opts.Memory); err != nil {
		app.Close()
		return nil, err
	}

	// Phase 2: run history (optional)
	if err := app.setupRunHistory(ctx); err != nil {
		app.Close()
		return nil, err
	}

	// Phase 3: sync pipeline
	orch, err := app.setupOrchestrator(ctx, metrics.New(app.Registry))
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Orchestrator = orch

	return app, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.Log.Warn("Failed to release resources", logger.Error(err))
	}
}

func (a *App) onClose(f func() error) {
	a.closers = append(a.closers, f)
}

func wrapSetup(component string, err error) error {
	return fmt.Errorf("setup %s: %w", component, err)
}
