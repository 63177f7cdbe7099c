package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter is a fixed-window counter backend.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

var (
	_ Limiter = (*MemoryLimiter)(nil)
	_ Limiter = (*RedisLimiter)(nil)
)

// Scope indicates which dimension the rate limit applies to.
type Scope int

const (
	// ScopeNone disables limiting.
	ScopeNone Scope = iota
	// ScopeLogin limits login attempts per client address.
	ScopeLogin
	// ScopeUser limits requests per authenticated user.
	ScopeUser
)

// String returns the metric label for the scope.
func (s Scope) String() string {
	switch s {
	case ScopeLogin:
		return "login"
	case ScopeUser:
		return "user"
	default:
		return "none"
	}
}
