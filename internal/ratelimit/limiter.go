// Package ratelimit implements fixed-window request counting per client key.
//
// A window opens on the first request from a key and lasts Policy.Window.
// Requests inside the window are admitted while the count is at most
// Policy.MaxRequests; the count keeps growing past the limit, so a denied
// client stays denied until the window elapses.
package ratelimit

import (
	"context"
	"time"
)

// Policy is the fixed-window configuration shared by every key
type Policy struct {
	Window      time.Duration
	MaxRequests int
}

// Decision is the outcome of a single admission check
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	// RetryAfter is the time left until the current window closes
	RetryAfter time.Duration
}

// Remaining returns how many more requests the current window admits
func (d Decision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}

// Limiter decides admission for a client key. It never fails: backend
// errors are logged by the implementation and resolved to a decision.
type Limiter interface {
	Allow(ctx context.Context, key string) Decision
}

func decide(policy Policy, count int, windowStart, now time.Time) Decision {
	retryAfter := windowStart.Add(policy.Window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Decision{
		Allowed:    count <= policy.MaxRequests,
		Count:      count,
		Limit:      policy.MaxRequests,
		RetryAfter: retryAfter,
	}
}
