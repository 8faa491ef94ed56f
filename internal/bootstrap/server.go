package bootstrap

import (
	"github.com/pruthviraj-chavan/happytools1/internal/api"
)

// Server builds the HTTP server over the catalog and the orchestrator.
func (a *App) Server() *api.Server {
	cfg := a.Config
	routes := api.Routes{
		Tools:        api.NewToolHandler(a.Store, a.Log),
		Service:      cfg.Service.Name,
		Version:      cfg.Service.Version,
		HealthChecks: a.checks,
		Gatherer:     a.Registry,
	}

	var runs api.RunLister
	if a.Runs != nil {
		runs = a.Runs
	}
	routes.Sync = api.NewSyncHandler(a.Orchestrator, runs, cfg.Server.SyncTimeout, a.Log)

	return api.NewServer(api.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Debug:          cfg.Logging.Development,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
	}, a.Log, routes.Register)
}
