package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

// ErrRunNotFound is returned when no sync run matches an id.
var ErrRunNotFound = errors.New("sync run not found")

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// SyncRunRepository persists sync run summaries.
type SyncRunRepository struct {
	db *sqlx.DB
}

// NewSyncRunRepository creates a new sync run repository.
func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Start inserts the row for a run that has just begun. A zero ID is replaced with a new one.
func (r *SyncRunRepository) Start(ctx context.Context, run *domain.SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO sync_runs (id, kind, started_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, run.ID, string(run.Kind), run.StartedAt); err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

// Finish writes the final counts of a run.
func (r *SyncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	query := `
		UPDATE sync_runs
		SET finished_at = $1,
		    synced = $2,
		    updated = $3,
		    total_found = $4,
		    rejected = $5,
		    store_errors = $6,
		    failed_targets = $7,
		    error = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		run.FinishedAt,
		run.Synced,
		run.Updated,
		run.TotalFound,
		run.Rejected,
		run.StoreErrors,
		run.FailedTargets,
		run.Error,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish sync run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

// GetByID retrieves one run.
func (r *SyncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SyncRun, error) {
	var run domain.SyncRun
	query := `
		SELECT id, kind, started_at, finished_at, synced, updated, total_found,
		       rejected, store_errors, failed_targets, error
		FROM sync_runs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return &run, nil
}

// ListRecent returns the newest runs first, optionally restricted to one kind.
func (r *SyncRunRepository) ListRecent(ctx context.Context, kind domain.RunKind, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	query := `
		SELECT id, kind, started_at, finished_at, synced, updated, total_found,
		       rejected, store_errors, failed_targets, error
		FROM sync_runs
		WHERE ($1 = '' OR kind = $1)
		ORDER BY started_at DESC
		LIMIT $2
	`
	runs := make([]*domain.SyncRun, 0, limit)
	if err := r.db.SelectContext(ctx, &runs, query, string(kind), limit); err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}
