package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pruthviraj-chavan/happytools1/internal/dedupe"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

// writer reconciles tools against the store and applies the resulting insert or update.
// Per-record failures are counted, never returned.
type writer struct {
	store      Store
	reconciler *dedupe.Reconciler
	log        logger.Logger

	inserted    int
	updated     int
	storeErrors int
}

func (o *Orchestrator) newWriter(log logger.Logger) *writer {
	return &writer{
		store:      o.store,
		reconciler: dedupe.NewReconciler(o.store, o.now),
		log:        log,
	}
}

func (w *writer) write(ctx context.Context, tools []*domain.Tool) {
	for _, tool := range tools {
		kind, err := w.upsert(ctx, tool)
		if err != nil {
			w.storeErrors++
			w.log.Warn("Skipping tool after store error",
				logger.String("name", tool.Name),
				logger.Source(tool.Source),
				logger.Error(err),
			)
			continue
		}
		switch kind {
		case dedupe.ActionInsert:
			w.inserted++
		case dedupe.ActionUpdate:
			w.updated++
		}
	}
}

// upsert falls back to an update when a concurrent run inserted the same identity first.
func (w *writer) upsert(ctx context.Context, tool *domain.Tool) (dedupe.ActionKind, error) {
	action, err := w.reconciler.Reconcile(ctx, tool)
	if err != nil {
		return 0, err
	}

	if action.Kind == dedupe.ActionInsert {
		err = w.store.Insert(ctx, action.Tool)
		if !errors.Is(err, domain.ErrConflict) {
			if err != nil {
				return 0, fmt.Errorf("insert %s: %w", tool.Identity(), err)
			}
			return dedupe.ActionInsert, nil
		}
		if action, err = w.reconciler.Reconcile(ctx, tool); err != nil {
			return 0, err
		}
		if action.Kind != dedupe.ActionUpdate {
			return 0, fmt.Errorf("insert %s: %w", tool.Identity(), domain.ErrConflict)
		}
	}

	if err := w.store.Update(ctx, action.Tool); err != nil {
		return 0, fmt.Errorf("update %s: %w", tool.Identity(), err)
	}
	return dedupe.ActionUpdate, nil
}

func (w *writer) apply(r *Report) {
	r.Synced += w.inserted
	r.Updated += w.updated
	r.StoreErrors += w.storeErrors
}
