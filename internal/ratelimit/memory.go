package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter counts requests for the current one-second window in
// process memory. Counters from earlier windows are discarded when the
// window advances, so memory is bounded by the keys active in one second.
type MemoryLimiter struct {
	mu     sync.Mutex
	window int64
	counts map[string]int64
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counts: make(map[string]int64)}
}

// Allow increments the counter for key in the window containing now.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	window := now.Unix()

	l.mu.Lock()
	defer l.mu.Unlock()
	if window > l.window {
		l.window = window
		clear(l.counts)
	}
	l.counts[key]++
	return resultForCount(l.counts[key], limit, l.window), nil
}
