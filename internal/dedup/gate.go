package dedup

import (
	"context"
	"errors"
	"log"
	"time"
)

const keyPrefix = "processed_"

// Gate answers whether a message was already handled and records new marks.
// Lookups fail open: a store error is treated as "not yet processed", since
// silently dropping a valid posting costs more than the rare duplicate import.
type Gate struct {
	store Store
	ttl   time.Duration
}

// NewGate creates a Gate over the given store with the given mark lifetime
func NewGate(store Store, ttl time.Duration) *Gate {
	return &Gate{store: store, ttl: ttl}
}

// IsAlreadyProcessed returns true iff a non-expired mark exists for messageID
func (g *Gate) IsAlreadyProcessed(ctx context.Context, messageID string) bool {
	_, err := g.store.Get(ctx, keyPrefix+messageID)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrNotFound) {
		log.Printf("[Dedup] Lookup failed for %s, treating as unprocessed: %v", messageID, err)
	}
	return false
}

// MarkAsProcessed creates or refreshes the mark for messageID
func (g *Gate) MarkAsProcessed(ctx context.Context, messageID string) {
	if err := g.store.Put(ctx, keyPrefix+messageID, "1", g.ttl); err != nil {
		log.Printf("[Dedup] Failed to mark %s as processed: %v", messageID, err)
	}
}

// Forget removes the mark for messageID, forcing reprocessing on the next run
func (g *Gate) Forget(ctx context.Context, messageID string) error {
	return g.store.Remove(ctx, keyPrefix+messageID)
}

// TTL returns the configured mark lifetime
func (g *Gate) TTL() time.Duration {
	return g.ttl
}
