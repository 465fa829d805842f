package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/scout/internal/poll"
)

func TestOverride(t *testing.T) {
	base := poll.Config{Timeout: time.Second, Interval: 50 * time.Millisecond}

	cfg, err := base.Override(0, 0)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)

	cfg, err = base.Override(2*time.Second, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, poll.MinInterval, cfg.Interval, "short intervals are clamped")

	_, err = base.Override(-time.Second, 0)
	require.ErrorContains(t, err, "negative timeout")

	_, err = base.Override(0, -time.Second)
	require.ErrorContains(t, err, "negative poll interval")
}

func TestUntilSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := poll.Until(context.Background(), poll.Config{Timeout: time.Second, Interval: poll.MinInterval},
		func(context.Context) (bool, error) {
			calls++
			return calls == 3, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestUntilTimesOut(t *testing.T) {
	calls := 0
	err := poll.Until(context.Background(), poll.Config{Timeout: 30 * time.Millisecond, Interval: poll.MinInterval},
		func(context.Context) (bool, error) {
			calls++
			return false, nil
		})
	require.ErrorIs(t, err, poll.ErrTimeout)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestUntilRunsOnceWithZeroTimeout(t *testing.T) {
	calls := 0
	err := poll.Until(context.Background(), poll.Config{Interval: poll.MinInterval},
		func(context.Context) (bool, error) {
			calls++
			return true, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestUntilForwardsAttemptError(t *testing.T) {
	boom := errors.New("detached element")
	err := poll.Until(context.Background(), poll.Config{Timeout: time.Second, Interval: poll.MinInterval},
		func(context.Context) (bool, error) {
			return false, boom
		})
	require.Same(t, boom, err)
}

func TestUntilStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := poll.Until(ctx, poll.Config{Timeout: time.Minute, Interval: time.Second},
		func(context.Context) (bool, error) {
			return false, nil
		})
	require.ErrorIs(t, err, context.Canceled)
}
