package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunKind names the sync path a run executed.
type RunKind string

const (
	RunKindProductHunt RunKind = "producthunt"
	RunKindScraped     RunKind = "scraped"
	RunKindTrending    RunKind = "trending"
	RunKindAll         RunKind = "all"
)

// SyncRun is the persisted summary of one sync invocation.
type SyncRun struct {
	ID            uuid.UUID  `db:"id"             json:"id"`
	Kind          RunKind    `db:"kind"           json:"kind"`
	StartedAt     time.Time  `db:"started_at"     json:"started_at"`
	FinishedAt    *time.Time `db:"finished_at"    json:"finished_at,omitempty"`
	Synced        int        `db:"synced"         json:"synced"`
	Updated       int        `db:"updated"        json:"updated"`
	TotalFound    int        `db:"total_found"    json:"total_found"`
	Rejected      int        `db:"rejected"       json:"rejected"`
	StoreErrors   int        `db:"store_errors"   json:"store_errors"`
	FailedTargets int        `db:"failed_targets" json:"failed_targets"`
	Error         *string    `db:"error"          json:"error,omitempty"`
}

// Duration is zero while the run is unfinished.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
