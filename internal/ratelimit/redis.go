package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Window keys outlive their second slightly so that clock skew between
// replicas does not reset a live counter.
const redisWindowGrace = 2 * time.Second

// RedisLimiter counts requests per one-second window in Redis so that
// every replica shares the same counters.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a RedisLimiter writing keys under prefix.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix}
}

// Allow increments the counter for key in the window containing now.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" || l == nil || l.client == nil {
		return Result{Allowed: true}, nil
	}
	window := now.Unix()
	windowKey := l.windowKey(key, window)

	var incr *redis.IntCmd
	_, errExec := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.ExpireAt(ctx, windowKey, windowReset(window).Add(redisWindowGrace))
		return nil
	})
	if errExec != nil {
		return Result{}, fmt.Errorf("ratelimit: redis increment: %w", errExec)
	}
	return resultForCount(incr.Val(), limit, window), nil
}

func (l *RedisLimiter) windowKey(key string, window int64) string {
	return l.prefix + ":" + key + ":" + strconv.FormatInt(window, 10)
}

// windowReset returns the instant the window starting at second window ends.
func windowReset(window int64) time.Time {
	return time.Unix(window+1, 0).UTC()
}

// resultForCount converts the post-increment count of a window into a Result.
func resultForCount(count int64, limit int, window int64) Result {
	reset := windowReset(window)
	if count > int64(limit) {
		return Result{Allowed: false, Remaining: 0, Reset: reset}
	}
	return Result{Allowed: true, Remaining: limit - int(count), Reset: reset}
}
