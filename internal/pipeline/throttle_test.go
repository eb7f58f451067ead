package pipeline

import (
	"context"
	"testing"
	"time"
)

func TestFixedThrottle_FirstCallImmediate(t *testing.T) {
	throttle := NewFixedThrottle(time.Hour)

	start := time.Now()
	if err := throttle.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestFixedThrottle_SubsequentCallsDelayed(t *testing.T) {
	throttle := NewFixedThrottle(50 * time.Millisecond)
	ctx := context.Background()

	throttle.Wait(ctx)

	start := time.Now()
	if err := throttle.Wait(ctx); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second Wait returned after %v, want at least the interval", elapsed)
	}
}

func TestFixedThrottle_CancelledContext(t *testing.T) {
	throttle := NewFixedThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	throttle.Wait(ctx)
	cancel()

	if err := throttle.Wait(ctx); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFixedThrottle_ZeroInterval(t *testing.T) {
	throttle := NewFixedThrottle(0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttle.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
}
