package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rate_limit:"

// fixedWindowScript increments the counter and starts the window on the first hit.
// Returns {count, pttl}.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter shares counters between processes through Redis.
// Keys expire with their window, so nothing accumulates.
type RedisLimiter struct {
	client redis.Scripter
	policy Policy
}

func NewRedisLimiter(client redis.Scripter, policy Policy) *RedisLimiter {
	return &RedisLimiter{client: client, policy: policy}
}

// Allow admits the request when Redis is unreachable; the failure is logged.
func (l *RedisLimiter) Allow(ctx context.Context, key string) Decision {
	res, err := fixedWindowScript.Run(ctx, l.client, []string{redisKeyPrefix + key}, l.policy.Window.Milliseconds()).Int64Slice()
	if err == nil && len(res) != 2 {
		err = fmt.Errorf("unexpected rate limit script reply of length %d", len(res))
	}
	if err != nil {
		logger.Error("Rate limit check failed, admitting request", err, map[string]interface{}{
			"key": key,
		})
		return Decision{Allowed: true, Limit: l.policy.MaxRequests}
	}

	count := int(res[0])
	retryAfter := time.Duration(res[1]) * time.Millisecond
	return Decision{
		Allowed:    count <= l.policy.MaxRequests,
		Count:      count,
		Limit:      l.policy.MaxRequests,
		RetryAfter: retryAfter,
	}
}
