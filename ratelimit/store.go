package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store keeps fixed-window counters. Implementations must make Incr atomic per
// key so concurrent requests are never undercounted.
type Store interface {
	// Incr counts one hit for key and returns the count within the current
	// window. A window older than window is restarted at now with count 1.
	Incr(ctx context.Context, key string, window time.Duration, now time.Time) (int, error)
	// Sweep drops counters whose window ended long ago and returns how many
	// were removed.
	Sweep(now time.Time) int
}

type counter struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// MemoryStore is a process-local Store. It is only correct for a single
// process deployment.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || now.Sub(c.windowStart) > window {
		s.counters[key] = &counter{count: 1, windowStart: now, window: window}
		return 1, nil
	}
	c.count++
	return c.count, nil
}

// Sweep evicts counters that have been expired for at least one full window.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, c := range s.counters {
		if now.Sub(c.windowStart) > 2*c.window {
			delete(s.counters, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}
