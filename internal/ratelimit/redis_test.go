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

func newTestRedisLimiter(t *testing.T, maxRequests int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, Policy{Window: 60 * time.Second, MaxRequests: maxRequests}), mr
}

func TestRedisLimiter_BurstThenRecover(t *testing.T) {
	l, mr := newTestRedisLimiter(t, 20)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		d := l.Allow(ctx, "203.0.113.7")
		assert.Equal(t, i <= 20, d.Allowed, "request %d", i)
		assert.Equal(t, i, d.Count)
	}

	mr.FastForward(61 * time.Second)

	d := l.Allow(ctx, "203.0.113.7")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestRedisLimiter_KeyExpiresWithWindow(t *testing.T) {
	l, mr := newTestRedisLimiter(t, 5)
	ctx := context.Background()

	d := l.Allow(ctx, "k")
	require.True(t, d.Allowed)
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	assert.InDelta(t, float64(60*time.Second), float64(mr.TTL(redisKeyPrefix+"k")), float64(time.Second))
	assert.Greater(t, d.RetryAfter, 59*time.Second)

	mr.FastForward(61 * time.Second)
	assert.False(t, mr.Exists(redisKeyPrefix+"k"))
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	l, mr := newTestRedisLimiter(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		d := l.Allow(context.Background(), "k")
		assert.True(t, d.Allowed)
	}
}
