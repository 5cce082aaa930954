package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisRateLimiter(client)
	fixed := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	return l, mr
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()
	rule := Rule{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "track:10.0.0.1", rule)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "track:10.0.0.1", rule)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.RetryAfter)

	other, err := l.Allow(ctx, "track:10.0.0.2", rule)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRedisRateLimiter_NewWindow(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()
	rule := Rule{Limit: 1, Window: time.Minute}

	d, err := l.Allow(ctx, "submit:ip", rule)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	d, err = l.Allow(ctx, "submit:ip", rule)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	next := l.now().Add(time.Minute)
	l.now = func() time.Time { return next }
	d, err = l.Allow(ctx, "submit:ip", rule)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisRateLimiter_DisabledRuleAndReset(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()

	d, err := l.Allow(ctx, "auth:ip", Rule{})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, mr.Keys())

	_, err = l.Allow(ctx, "auth:ip", Rule{Limit: 1, Window: time.Minute})
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	require.NoError(t, l.Reset(ctx, "auth:ip"))
	assert.Empty(t, mr.Keys())
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t)
	mr.Close()

	_, err := l.Allow(context.Background(), "k", Rule{Limit: 1, Window: time.Minute})
	assert.Error(t, err)
}
