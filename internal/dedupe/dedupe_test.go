package dedupe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pruthviraj-chavan/happytools1/internal/dedupe"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) FindOne(ctx context.Context, key domain.IdentityKey) (*domain.Tool, error) {
	args := m.Called(ctx, key)
	if t, ok := args.Get(0).(*domain.Tool); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gptwriter", dedupe.Key("GPT Writer"))
	assert.Equal(t, "gptwriter", dedupe.Key("gpt-writer"))
	assert.Equal(t, "gptwriter", dedupe.Key("GPT WRITER!!"))
	assert.Equal(t, "3dgen", dedupe.Key("3D Gen ✨"))
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	t.Parallel()

	in := []*domain.Tool{
		{ID: "1", Name: "GPT Writer"},
		{ID: "2", Name: "gpt-writer"},
		{ID: "3", Name: "GPT WRITER!!"},
	}

	out := dedupe.Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestDedupe_DropsShortKeysAndKeepsOrder(t *testing.T) {
	t.Parallel()

	in := []*domain.Tool{
		{ID: "a", Name: "Zeta"},
		{ID: "b", Name: "A.I"},
		{ID: "c", Name: "Alpha"},
		nil,
		{ID: "d", Name: "zeta!"},
	}

	out := dedupe.Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestSeen_AcrossBatches(t *testing.T) {
	t.Parallel()

	seen := dedupe.NewSeen()
	assert.True(t, seen.Add("Copy.ai"))
	assert.False(t, seen.Add("ai"))
	assert.True(t, seen.Add("Jasper"))
	assert.False(t, seen.Add("copy ai"))
	assert.Equal(t, 2, seen.Len())
}

func TestReconcile_InsertWhenMissing(t *testing.T) {
	t.Parallel()

	lookup := &mockLookup{}
	tool := &domain.Tool{ID: "new", Name: "Copy Pilot", Source: domain.SourceAIToolsFyi}
	lookup.On("FindOne", mock.Anything, domain.IdentityKey{Name: "Copy Pilot", Source: domain.SourceAIToolsFyi}).
		Return(nil, domain.ErrNotFound)

	action, err := dedupe.NewReconciler(lookup, nil).Reconcile(context.Background(), tool)
	require.NoError(t, err)

	assert.Equal(t, dedupe.ActionInsert, action.Kind)
	assert.Same(t, tool, action.Tool)
	lookup.AssertExpectations(t)
}

func TestReconcile_UpdatePreservesIdentity(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	previous := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Tool{ID: "orig", Name: "Copy Pilot", Source: domain.SourceAIToolsFyi, CreatedAt: created, UpdatedAt: previous}

	lookup := &mockLookup{}
	lookup.On("FindOne", mock.Anything, mock.Anything).Return(existing, nil)

	now := previous.Add(time.Hour)
	fresh := &domain.Tool{ID: "fresh", Name: "Copy Pilot", Source: domain.SourceAIToolsFyi, Tagline: "new tagline",
		CreatedAt: now, UpdatedAt: now}

	action, err := dedupe.NewReconciler(lookup, func() time.Time { return now }).Reconcile(context.Background(), fresh)
	require.NoError(t, err)

	assert.Equal(t, dedupe.ActionUpdate, action.Kind)
	assert.Equal(t, "orig", action.Tool.ID)
	assert.Equal(t, created, action.Tool.CreatedAt)
	assert.True(t, action.Tool.UpdatedAt.After(previous))
	assert.Equal(t, "new tagline", action.Tool.Tagline)
	assert.Equal(t, "fresh", fresh.ID, "input tool is not mutated")
}

func TestReconcile_UpdatedAtMovesForwardEvenWithSkewedClock(t *testing.T) {
	t.Parallel()

	previous := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	lookup := &mockLookup{}
	lookup.On("FindOne", mock.Anything, mock.Anything).Return(&domain.Tool{ID: "x", UpdatedAt: previous}, nil)

	action, err := dedupe.NewReconciler(lookup, func() time.Time { return previous.Add(-time.Minute) }).
		Reconcile(context.Background(), &domain.Tool{Name: "Skewed", Source: domain.SourceAIToolsFyi})
	require.NoError(t, err)
	assert.True(t, action.Tool.UpdatedAt.After(previous))
}

func TestReconcile_ProductHuntUsesNativeID(t *testing.T) {
	t.Parallel()

	lookup := &mockLookup{}
	lookup.On("FindOne", mock.Anything, domain.IdentityKey{PHID: "12345"}).Return(nil, domain.ErrNotFound)

	_, err := dedupe.NewReconciler(lookup, nil).Reconcile(context.Background(),
		&domain.Tool{PHID: "12345", Name: "Launchpad", Source: domain.SourceProductHunt})
	require.NoError(t, err)
	lookup.AssertExpectations(t)
}

func TestReconcile_LookupFailure(t *testing.T) {
	t.Parallel()

	storeDown := errors.New("connection refused")
	lookup := &mockLookup{}
	lookup.On("FindOne", mock.Anything, mock.Anything).Return(nil, storeDown)

	_, err := dedupe.NewReconciler(lookup, nil).Reconcile(context.Background(),
		&domain.Tool{Name: "Copy Pilot", Source: domain.SourceAIToolsFyi})
	require.ErrorIs(t, err, storeDown)
}
