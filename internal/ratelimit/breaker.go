package ratelimit

import (
	"sync"
	"time"
)

const redisBreakerDuration = 30 * time.Second

// breaker keeps a failing backend out of the request path for a cooldown period.
type breaker struct {
	mu        sync.Mutex
	cooldown  time.Duration
	openUntil time.Time
}

// closed reports whether the backend may be used at now.
func (b *breaker) closed(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !now.Before(b.openUntil)
}

// trip opens the breaker and reports whether it was closed before.
func (b *breaker) trip(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	wasClosed := !now.Before(b.openUntil)
	if wasClosed {
		b.openUntil = now.Add(b.cooldown)
	}
	return wasClosed
}
