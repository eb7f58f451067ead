package dedup

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGate_MarkThenCheck(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	gate := NewGate(store, time.Hour)
	ctx := context.Background()

	if gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("fresh message must not be marked processed")
	}

	gate.MarkAsProcessed(ctx, "msg-1")

	if !gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("marked message must be reported processed")
	}
	if gate.IsAlreadyProcessed(ctx, "msg-2") {
		t.Fatal("unrelated message must not be affected")
	}
}

func TestGate_MarkExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	gate := NewGate(store, 10*time.Millisecond)
	ctx := context.Background()

	gate.MarkAsProcessed(ctx, "msg-1")
	if !gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("mark must hold within the TTL")
	}

	time.Sleep(30 * time.Millisecond)

	if gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("mark must lapse after the TTL")
	}
}

func TestGate_Forget(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	gate := NewGate(store, time.Hour)
	ctx := context.Background()

	gate.MarkAsProcessed(ctx, "msg-1")
	if err := gate.Forget(ctx, "msg-1"); err != nil {
		t.Fatalf("Forget returned error: %v", err)
	}
	if gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("forgotten message must be reprocessable")
	}
}

// failingStore returns an error on every operation
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (failingStore) Put(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) Remove(context.Context, string) error {
	return errors.New("connection refused")
}

func TestGate_FailsOpen(t *testing.T) {
	gate := NewGate(failingStore{}, time.Hour)
	ctx := context.Background()

	// A broken store must never block processing
	if gate.IsAlreadyProcessed(ctx, "msg-1") {
		t.Fatal("store errors must be treated as not-yet-processed")
	}

	// Marking must not panic or propagate the failure
	gate.MarkAsProcessed(ctx, "msg-1")
}

func TestMemoryStore_SweepRemovesExpired(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	store.Put(ctx, "a", "1", 5*time.Millisecond)
	store.Put(ctx, "b", "1", time.Hour)

	time.Sleep(50 * time.Millisecond)

	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1 after sweep", store.Len())
	}
	if _, err := store.Get(ctx, "b"); err != nil {
		t.Errorf("live entry lost: %v", err)
	}
}
