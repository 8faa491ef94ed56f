package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pruthviraj-chavan/happytools1/internal/database"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

var syncRunColumns = []string{
	"id", "kind", "started_at", "finished_at", "synced", "updated", "total_found",
	"rejected", "store_errors", "failed_targets", "error",
}

func newSyncRunRepo(t *testing.T) (*database.SyncRunRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return database.NewSyncRunRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestSyncRunRepository_Start(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	started := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO sync_runs").
		WithArgs(sqlmock.AnyArg(), "scraped", started).
		WillReturnResult(sqlmock.NewResult(0, 1))

	run := &domain.SyncRun{Kind: domain.RunKindScraped, StartedAt: started}
	require.NoError(t, repo.Start(context.Background(), run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunRepository_Start_Error(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	mock.ExpectExec("INSERT INTO sync_runs").WillReturnError(errors.New("connection lost"))

	err := repo.Start(context.Background(), &domain.SyncRun{Kind: domain.RunKindAll})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
}

func TestSyncRunRepository_Finish(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	finished := time.Date(2026, 2, 1, 12, 0, 30, 0, time.UTC)
	cause := "product hunt api key is not configured"
	run := &domain.SyncRun{
		ID:            uuid.New(),
		Kind:          domain.RunKindProductHunt,
		FinishedAt:    &finished,
		Synced:        0,
		FailedTargets: 0,
		Error:         &cause,
	}

	mock.ExpectExec("UPDATE sync_runs").
		WithArgs(finished, 0, 0, 0, 0, 0, 0, cause, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Finish(context.Background(), run))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunRepository_Finish_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	mock.ExpectExec("UPDATE sync_runs").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), &domain.SyncRun{ID: uuid.New()})
	assert.ErrorIs(t, err, database.ErrRunNotFound)
}

func TestSyncRunRepository_GetByID(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	id := uuid.New()
	started := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(42 * time.Second)

	mock.ExpectQuery("SELECT .+ FROM sync_runs WHERE id").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(syncRunColumns).
			AddRow(id.String(), "scraped", started, finished, 2, 1, 3, 1, 0, 1, nil))

	run, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, domain.RunKindScraped, run.Kind)
	assert.Equal(t, 2, run.Synced)
	assert.Equal(t, 1, run.FailedTargets)
	assert.Nil(t, run.Error)
	assert.Equal(t, 42*time.Second, run.Duration())
}

func TestSyncRunRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	mock.ExpectQuery("SELECT .+ FROM sync_runs").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, database.ErrRunNotFound)
}

func TestSyncRunRepository_ListRecent(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM sync_runs .+ ORDER BY started_at DESC").
		WithArgs("", 20).
		WillReturnRows(sqlmock.NewRows(syncRunColumns).
			AddRow(uuid.NewString(), "all", now, now, 5, 0, 5, 0, 0, 0, nil).
			AddRow(uuid.NewString(), "trending", now.Add(-time.Hour), nil, 0, 0, 0, 0, 0, 0, "boom"))

	runs, err := repo.ListRecent(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, domain.RunKindAll, runs[0].Kind)
	assert.Nil(t, runs[1].FinishedAt)
	require.NotNil(t, runs[1].Error)
	assert.Equal(t, "boom", *runs[1].Error)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRunRepository_ListRecent_ClampsLimit(t *testing.T) {
	t.Parallel()

	repo, mock := newSyncRunRepo(t)
	mock.ExpectQuery("SELECT .+ FROM sync_runs").
		WithArgs("scraped", 200).
		WillReturnRows(sqlmock.NewRows(syncRunColumns))

	runs, err := repo.ListRecent(context.Background(), domain.RunKindScraped, 5000)
	require.NoError(t, err)
	assert.Empty(t, runs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := database.Config{Host: "db", Password: "secret"}
	assert.True(t, cfg.Enabled())
	cfg.SetDefaults()
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=happytools sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://postgres:secret@db:5432/happytools?sslmode=disable", cfg.URL())
	assert.False(t, database.Config{}.Enabled())
}

func TestConfig_URLEscapesCredentials(t *testing.T) {
	t.Parallel()

	cfg := database.Config{Host: "db", Password: "p@ss/word"}
	cfg.SetDefaults()
	assert.Equal(t, "postgres://postgres:p%40ss%2Fword@db:5432/happytools?sslmode=disable", cfg.URL())
}
