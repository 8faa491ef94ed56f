package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pruthviraj-chavan/happytools1/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("i/o timeout")

func fastConfig(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), fastConfig(2), func() error {
		calls++
		return errFlaky
	})

	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, calls)
}

func TestDo_SingleAttemptReturnsRawError(t *testing.T) {
	t.Parallel()

	err := retry.Do(context.Background(), fastConfig(1), func() error { return errFlaky })
	assert.Equal(t, errFlaky, err)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("bad request")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(3), func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, retry.IsTransient(errors.New("dial tcp: connection refused")))
	assert.False(t, retry.IsTransient(errors.New("parse error")))
	assert.False(t, retry.IsTransient(nil))
}

func TestSleep(t *testing.T) {
	t.Parallel()

	start := time.Now()
	require.NoError(t, retry.Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, retry.Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, retry.Sleep(ctx, 0), context.Canceled)
}
