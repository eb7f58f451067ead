package pipeline

import (
	"context"
	"time"
)

// Throttle paces calls to the extraction API
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedThrottle enforces a fixed delay between consecutive calls. The first
// call goes through immediately; the free-tier quota is per minute, so only
// the spacing between calls matters.
type FixedThrottle struct {
	interval time.Duration
	started  bool
}

// NewFixedThrottle creates a throttle with the given inter-call delay
func NewFixedThrottle(interval time.Duration) *FixedThrottle {
	return &FixedThrottle{interval: interval}
}

// Wait blocks for the configured delay, except before the first call
func (t *FixedThrottle) Wait(ctx context.Context) error {
	if !t.started {
		t.started = true
		return nil
	}
	if t.interval <= 0 {
		return nil
	}

	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
