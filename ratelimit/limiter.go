package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Limiter applies fixed-window limits on top of a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// Check counts a hit for identifier and reports whether it is within limit for
// the current window. Store failures let the request through.
func (l *Limiter) Check(ctx context.Context, identifier string, limit int, window time.Duration) bool {
	count, err := l.store.Incr(ctx, identifier, window, l.now())
	if err != nil {
		zap.L().Warn("rate limit store unavailable", zap.String("key", identifier), zap.Error(err))
		return true
	}
	return count <= limit
}

// Sweep evicts stale counters. It is run periodically by the scheduler.
func (l *Limiter) Sweep() int {
	removed := l.store.Sweep(l.now())
	if removed > 0 {
		zap.S().Debugf("rate limiter evicted %d stale counters", removed)
	}
	return removed
}
