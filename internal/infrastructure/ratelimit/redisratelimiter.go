package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/candor-hq/candor/internal/shared/biztime"
)

const keyPrefix = "candor:ratelimit:"

// RedisRateLimiter is a fixed-window counter. Each window gets its own key
// with a TTL slightly longer than the window.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, now: biztime.NowUTC}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule Rule) (Decision, error) {
	if !rule.Enabled() {
		return Decision{Allowed: true, Remaining: -1}, nil
	}

	now := l.now()
	windowSecs := int64(rule.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	bucket := now.Unix() / windowSecs
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, rule.Window+time.Second).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	if count > int64(rule.Limit) {
		windowEnd := time.Unix((bucket+1)*windowSecs, 0)
		retry := windowEnd.Sub(now)
		if retry < time.Second {
			retry = time.Second
		}
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}
	return Decision{Allowed: true, Remaining: rule.Limit - int(count)}, nil
}

// Reset drops every window counted for key.
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	iter := l.client.Scan(ctx, 0, keyPrefix+key+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}
