package bootstrap

import (
	"context"
	"fmt"

	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/scheduler"
)

// Serve runs the HTTP server, and the sync scheduler when enabled, until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.Schedule.Enabled {
		sched, err := scheduler.New(a.Config.Schedule, a.Orchestrator.SyncAll, a.Log)
		if err != nil {
			return wrapSetup("scheduler", err)
		}
		sched.Start()
		a.Log.Info("Sync scheduler started",
			logger.String("schedule", a.Config.Schedule.Schedule),
			logger.Time("next", sched.Next()),
		)
		defer func() {
			if stopErr := sched.Stop(context.WithoutCancel(ctx)); stopErr != nil {
				a.Log.Warn("Scheduler did not stop cleanly", logger.Error(stopErr))
			}
		}()
	}

	if err := a.Server().ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
