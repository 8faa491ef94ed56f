package bootstrap

import (
	"context"
	"errors"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/events"
	"github.com/pruthviraj-chavan/happytools1/internal/extractor"
	"github.com/pruthviraj-chavan/happytools1/internal/fetcher"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/metrics"
	"github.com/pruthviraj-chavan/happytools1/internal/producthunt"
	"github.com/pruthviraj-chavan/happytools1/internal/sources"
	"github.com/pruthviraj-chavan/happytools1/internal/syncer"
)

func (a *App) setupOrchestrator(ctx context.Context, m *metrics.Metrics) (*syncer.Orchestrator, error) {
	targets, err := a.loadTargets()
	if err != nil {
		return nil, wrapSetup("targets", err)
	}

	phClient := producthunt.NewClient(a.Config.ProductHunt, a.Log)
	if !phClient.Configured() {
		a.Log.Warn("Product Hunt API key not set, Product Hunt sync will report zero tools")
	}

	deps := syncer.Deps{
		Fetcher:   fetcher.New(a.Config.Fetcher, a.Log),
		Extractor: extractor.New(extractor.WithMaxPerPage(a.Config.Sync.MaxToolsPerPage), extractor.WithLogger(a.Log)),
		Posts:     phClient,
		Store:     a.Store,
		Targets:   targets,
		Metrics:   m,
	}
	if a.Runs != nil {
		deps.Runs = a.Runs
	}
	if pub := a.setupEventPublisher(ctx); pub != nil {
		deps.Events = pub
	}

	return syncer.New(deps, a.Config.Sync.Orchestrator(), a.Log), nil
}

func (a *App) loadTargets() ([]domain.Target, error) {
	path := a.Config.Sync.TargetsFile
	if path == "" {
		return sources.DefaultTargets(), nil
	}
	targets, err := sources.LoadTargets(path)
	if err != nil {
		return nil, err
	}
	a.Log.Info("Loaded scrape targets", logger.String("file", path), logger.Int("count", len(targets)))
	return targets, nil
}

// setupEventPublisher connects to Redis when configured. Publishing is optional, so a
// connection failure only disables it.
func (a *App) setupEventPublisher(ctx context.Context) *events.Publisher {
	client, err := events.NewClient(ctx, a.Config.Redis)
	if err != nil {
		if !errors.Is(err, events.ErrEmptyAddress) {
			a.Log.Warn("Redis unavailable, sync events disabled", logger.Error(err))
		}
		return nil
	}
	a.onClose(client.Close)

	a.checks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	return events.NewPublisher(client, a.Config.Redis, a.Log)
}
