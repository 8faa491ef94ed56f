// Package dedupe collapses duplicate tools within a run and reconciles them against the
// persisted catalog.
package dedupe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
)

const minKeyLength = 3

// Key lowercases name and strips everything outside [a-z0-9].
func Key(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dedupe keeps the first tool for every normalized name, in input order. Tools whose key is
// shorter than three characters are dropped.
func Dedupe(tools []*domain.Tool) []*domain.Tool {
	seen := NewSeen()
	out := make([]*domain.Tool, 0, len(tools))
	for _, t := range tools {
		if t != nil && seen.Add(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// Seen is the incremental form of Dedupe, for callers that receive tools in batches
// and must keep first-seen-wins across all of them.
type Seen struct {
	keys map[string]struct{}
}

// NewSeen returns an empty set.
func NewSeen() *Seen {
	return &Seen{keys: make(map[string]struct{})}
}

// Add reports whether name is the first with its key. Too-short keys are never added.
func (s *Seen) Add(name string) bool {
	k := Key(name)
	if len(k) < minKeyLength {
		return false
	}
	if _, dup := s.keys[k]; dup {
		return false
	}
	s.keys[k] = struct{}{}
	return true
}

// Len is the number of distinct keys added.
func (s *Seen) Len() int {
	return len(s.keys)
}

// ActionKind says whether a reconciled tool is new or replaces a stored record.
type ActionKind int

const (
	ActionInsert ActionKind = iota + 1
	ActionUpdate
)

func (k ActionKind) String() string {
	switch k {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Action is the write a reconciled tool needs.
type Action struct {
	Kind ActionKind
	Tool *domain.Tool
}

// Lookup finds a stored tool by identity key, returning domain.ErrNotFound when absent.
type Lookup interface {
	FindOne(ctx context.Context, key domain.IdentityKey) (*domain.Tool, error)
}

// Reconciler decides insert versus update.
type Reconciler struct {
	lookup Lookup
	now    func() time.Time
}

// NewReconciler creates a Reconciler. now defaults to time.Now in UTC.
func NewReconciler(lookup Lookup, now func() time.Time) *Reconciler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Reconciler{lookup: lookup, now: now}
}

// Reconcile looks tool up by its identity key. An existing record yields an update that keeps
// the stored id and created_at and moves updated_at strictly forward. Lookup failures are
// returned unchanged so the caller can skip the record.
func (r *Reconciler) Reconcile(ctx context.Context, tool *domain.Tool) (Action, error) {
	existing, err := r.lookup.FindOne(ctx, tool.Identity())
	if errors.Is(err, domain.ErrNotFound) {
		return Action{Kind: ActionInsert, Tool: tool}, nil
	}
	if err != nil {
		return Action{}, fmt.Errorf("lookup %s: %w", tool.Identity(), err)
	}

	merged := *tool
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = r.now()
	if !merged.UpdatedAt.After(existing.UpdatedAt) {
		merged.UpdatedAt = existing.UpdatedAt.Add(time.Millisecond)
	}
	return Action{Kind: ActionUpdate, Tool: &merged}, nil
}
