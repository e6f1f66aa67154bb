// Package realtime holds the clock the notification loops sleep on.
package realtime

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Clock reads the time and sleeps until an absolute instant.
// Sleeping to an absolute target keeps long waits from accumulating drift.
type Clock interface {
	Now() time.Time
	// SleepUntil returns nil at target, or ctx's error if cancelled first.
	// A target in the past returns immediately.
	SleepUntil(ctx context.Context, target time.Time) error
}

// SystemClock is the host's wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) SleepUntil(ctx context.Context, target time.Time) error {
	d := time.Until(target)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ErrStopped is returned by FakeClock once its sleep budget is spent
var ErrStopped = errors.New("fake clock stopped")

// FakeClock jumps straight to every sleep target. After Limit sleeps
// (when Limit > 0) it returns ErrStopped so a loop under test exits.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	Limit   int
	targets []time.Time
}

// NewFakeClock starts a fake clock at now
func NewFakeClock(now time.Time, limit int) *FakeClock {
	return &FakeClock{now: now, Limit: limit}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) SleepUntil(ctx context.Context, target time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Limit > 0 && len(c.targets) >= c.Limit {
		return ErrStopped
	}
	c.targets = append(c.targets, target)
	if target.After(c.now) {
		c.now = target
	}
	return nil
}

// Targets returns every instant slept to, in order
func (c *FakeClock) Targets() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time(nil), c.targets...)
}
