package bootstrap

import (
	"context"

	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/database"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

func (a *App) setupStore(ctx context.Context, memory bool) error {
	if memory {
		a.Log.Info("Using in-memory catalog store")
		a.Store = catalog.NewMemoryStore()
		return nil
	}

	esCfg := a.Config.Elasticsearch
	client, err := catalog.NewClient(ctx, esCfg, a.Log)
	if err != nil {
		return wrapSetup("elasticsearch", err)
	}

	store := catalog.NewElasticsearchStore(client, esCfg.Index, a.Log)
	if err = store.EnsureIndex(ctx); err != nil {
		return wrapSetup("elasticsearch index", err)
	}
	a.Store = store

	a.checks["elasticsearch"] = func(ctx context.Context) error {
		_, countErr := store.Count(ctx)
		return countErr
	}
	return nil
}

func (a *App) setupRunHistory(ctx context.Context) error {
	dbCfg := a.Config.Database
	if !dbCfg.Enabled() {
		a.Log.Info("Database not configured, sync run history disabled")
		return nil
	}

	db, err := database.NewPostgresConnection(ctx, dbCfg)
	if err != nil {
		return wrapSetup("postgres", err)
	}
	a.onClose(db.Close)

	a.Runs = database.NewSyncRunRepository(db)
	a.checks["postgres"] = db.PingContext

	a.Log.Info("Sync run history enabled",
		logger.String("host", dbCfg.Host),
		logger.String("database", dbCfg.DBName),
	)
	return nil
}
