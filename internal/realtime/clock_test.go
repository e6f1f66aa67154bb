package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClockPastTargetReturnsImmediately(t *testing.T) {
	start := time.Now()
	require.NoError(t, SystemClock{}.SleepUntil(context.Background(), start.Add(-time.Hour)))
	assert.Less(t, time.Since(start), time.Second)
}

func TestSystemClockSleeps(t *testing.T) {
	start := time.Now()
	require.NoError(t, SystemClock{}.SleepUntil(context.Background(), start.Add(20*time.Millisecond)))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSystemClockCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := SystemClock{}.SleepUntil(ctx, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start, 2)

	require.NoError(t, c.SleepUntil(context.Background(), start.Add(time.Minute)))
	assert.Equal(t, start.Add(time.Minute), c.Now())

	// Past targets do not move the clock back
	require.NoError(t, c.SleepUntil(context.Background(), start))
	assert.Equal(t, start.Add(time.Minute), c.Now())

	assert.ErrorIs(t, c.SleepUntil(context.Background(), start.Add(time.Hour)), ErrStopped)
	assert.Equal(t, []time.Time{start.Add(time.Minute), start}, c.Targets())
}
