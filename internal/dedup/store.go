// Package dedup implements the idempotency gate that prevents a message from
// being processed twice within the configured retention window.
package dedup

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the key does not exist or has expired
var ErrNotFound = errors.New("dedup: key not found")

// Store is a key-value store with per-key expiry. Any backend with TTL
// support satisfies the contract; the gate only needs get/put/remove.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
