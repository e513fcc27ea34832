package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	counterKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("increment %s: %w", counterKey, err)
	}
	// The window starts with the first hit.
	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("expire %s: %w", counterKey, err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, counterKey).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("ttl %s: %w", counterKey, err)
		}
		if ttl < 0 {
			// A crash between INCR and EXPIRE would leave the key immortal.
			_ = l.client.Expire(ctx, counterKey, l.window).Err()
			ttl = l.window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - int(count)}, nil
}
