package syncer

import "fmt"

// TargetState is the progress of one target through a sync run.
type TargetState string

const (
	StatePending     TargetState = "pending"
	StateFetching    TargetState = "fetching"
	StateExtracting  TargetState = "extracting"
	StateNormalizing TargetState = "normalizing"
	StateReconciled  TargetState = "reconciled"
	StateFailed      TargetState = "failed"
)

// ValidateTransition checks if a target state transition is valid.
func ValidateTransition(from, to TargetState) error {
	validTransitions := map[TargetState][]TargetState{
		StatePending: {
			StateFetching,
			StateFailed, // cancelled before the fetch started
		},
		StateFetching: {
			StateExtracting,
			StateFailed,
		},
		StateExtracting: {
			StateNormalizing,
			StateFailed,
		},
		StateNormalizing: {
			StateReconciled,
			StateFailed,
		},
		StateReconciled: {},
		StateFailed:     {},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown target state: %s", from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("invalid target transition from %s to %s", from, to)
}

// Terminal reports whether no further transition is allowed from s.
func (s TargetState) Terminal() bool {
	return s == StateReconciled || s == StateFailed
}
