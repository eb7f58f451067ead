package dedup

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store backed by a map with lazy expiry and a
// periodic sweep. Marks do not survive a restart; use the Redis store when
// the idempotency window must span process lifetimes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stop    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore and starts its expiry sweep
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}

	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()

	return s
}

// Get returns the value for key, or ErrNotFound if missing or expired
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.value, nil
}

// Put stores value under key with the given TTL, refreshing any existing entry
func (s *MemoryStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

// Remove deletes key from the store
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the expiry sweep
func (s *MemoryStore) Close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

// sweep removes expired entries
func (s *MemoryStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// Len returns the number of live entries (expired entries may be counted
// until the next sweep)
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
