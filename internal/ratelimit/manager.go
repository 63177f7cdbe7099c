package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisPingTimeout = 2 * time.Second

// RedisDialer constructs a Redis client for the given options.
type RedisDialer func(options *redis.Options) *redis.Client

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source used to pick windows.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRedisDialer overrides how the Redis client is constructed.
func WithRedisDialer(dial RedisDialer) Option {
	return func(m *Manager) {
		if dial != nil {
			m.dial = dial
		}
	}
}

// Manager enforces limits against Redis when configured and against process
// memory otherwise, or while Redis is failing.
type Manager struct {
	cfg     SettingsConfig
	now     func() time.Time
	dial    RedisDialer
	memory  *MemoryLimiter
	breaker breaker

	mu    sync.Mutex
	redis *RedisLimiter
}

// NewManager constructs a Manager for cfg.
func NewManager(cfg SettingsConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg.Normalize(),
		now:     time.Now,
		dial:    redis.NewClient,
		memory:  NewMemoryLimiter(),
		breaker: breaker{cooldown: redisBreakerDuration},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow reports whether one more request for key fits within limit per second.
func (m *Manager) Allow(ctx context.Context, key string, limit int) (Result, error) {
	if m == nil || limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	now := m.now()
	if m.cfg.RedisEnabled && m.breaker.closed(now) {
		result, errRedis := m.allowRedis(ctx, key, limit, now)
		if errRedis == nil {
			return result, nil
		}
		if m.breaker.trip(now) {
			log.WithError(errRedis).Warn("ratelimit: redis unavailable, using in-memory counters")
		}
	}
	return m.memory.Allow(ctx, key, limit, now)
}

// Close releases the Redis client, if one was opened.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		return nil
	}
	errClose := m.redis.client.Close()
	m.redis = nil
	return errClose
}

func (m *Manager) allowRedis(ctx context.Context, key string, limit int, now time.Time) (Result, error) {
	limiter, errConnect := m.connect(ctx)
	if errConnect != nil {
		return Result{}, errConnect
	}
	return limiter.Allow(ctx, key, limit, now)
}

// connect returns the shared Redis limiter, dialing it on first use.
func (m *Manager) connect(ctx context.Context) (*RedisLimiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis != nil {
		return m.redis, nil
	}
	client := m.dial(&redis.Options{
		Addr:     m.cfg.RedisAddr,
		Password: m.cfg.RedisPassword,
		DB:       m.cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if errPing := client.Ping(ctxPing).Err(); errPing != nil {
		_ = client.Close()
		return nil, errPing
	}
	m.redis = NewRedisLimiter(client, m.cfg.RedisPrefix)
	return m.redis, nil
}
