package syncer

import (
	"errors"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/fetcher"
)

// TargetOutcome is where one target ended up and why.
type TargetOutcome struct {
	Target   domain.Target
	State    TargetState
	Found    int
	Rejected int
	Err      error
}

func (o *TargetOutcome) advance(to TargetState) error {
	if err := ValidateTransition(o.State, to); err != nil {
		return err
	}
	o.State = to
	return nil
}

// FailureReason labels a failed target for metrics and logs.
func (o *TargetOutcome) FailureReason() string {
	if o.Err == nil {
		return ""
	}
	var fe *fetcher.FetchError
	if errors.As(o.Err, &fe) {
		return fe.Reason()
	}
	return "other"
}

// Report is the detailed result of a sync run. Synced counts inserts only.
type Report struct {
	Kind        domain.RunKind
	Synced      int
	Updated     int
	TotalFound  int
	Rejected    int
	StoreErrors int
	Targets     []TargetOutcome
	// Err is set when the run could not proceed at all.
	Err error
}

// Result is the caller-facing summary.
func (r *Report) Result() domain.SyncResult {
	return domain.SyncResult{Synced: r.Synced, TotalFound: r.TotalFound}
}

// FailedTargets counts targets that ended in StateFailed.
func (r *Report) FailedTargets() int {
	n := 0
	for i := range r.Targets {
		if r.Targets[i].State == StateFailed {
			n++
		}
	}
	return n
}

func (r *Report) merge(other *Report) {
	r.Synced += other.Synced
	r.Updated += other.Updated
	r.TotalFound += other.TotalFound
	r.Rejected += other.Rejected
	r.StoreErrors += other.StoreErrors
	r.Targets = append(r.Targets, other.Targets...)
	r.Err = errors.Join(r.Err, other.Err)
}
