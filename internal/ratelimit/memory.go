package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jobnest/jobnest-backend/pkg/logger"
)

// record is the RateRecord of one client key
type record struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

// MemoryLimiter keeps counters in process memory. The map is bounded:
// Sweep drops keys whose window has elapsed, and inserting into a full
// map evicts the least recently seen key.
type MemoryLimiter struct {
	mu      sync.Mutex
	records map[string]*record
	policy  Policy
	maxKeys int
	nowFunc func() time.Time // injectable clock for testing
}

// NewMemoryLimiter creates a limiter tracking at most maxKeys clients (0 = unbounded)
func NewMemoryLimiter(policy Policy, maxKeys int) *MemoryLimiter {
	return &MemoryLimiter{
		records: make(map[string]*record),
		policy:  policy,
		maxKeys: maxKeys,
		nowFunc: time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()

	r, exists := l.records[key]
	if !exists {
		if l.maxKeys > 0 && len(l.records) >= l.maxKeys {
			l.sweepLocked(now)
			if len(l.records) >= l.maxKeys {
				l.evictOldestLocked()
			}
		}
		r = &record{count: 1, windowStart: now, lastSeen: now}
		l.records[key] = r
		return decide(l.policy, r.count, r.windowStart, now)
	}

	r.lastSeen = now
	if now.Sub(r.windowStart) > l.policy.Window {
		r.count = 1
		r.windowStart = now
		return decide(l.policy, r.count, r.windowStart, now)
	}

	r.count++
	return decide(l.policy, r.count, r.windowStart, now)
}

// Sweep removes every key whose window has elapsed and returns how many were removed.
// A removed key behaves exactly like one whose window would be reset on its next request.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := l.sweepLocked(l.nowFunc())
	if removed > 0 {
		logger.Debug("Swept idle rate limit records", map[string]interface{}{
			"removed":   removed,
			"remaining": len(l.records),
		})
	}
	return removed
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *MemoryLimiter) sweepLocked(now time.Time) int {
	removed := 0
	for key, r := range l.records {
		if now.Sub(r.windowStart) > l.policy.Window {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

func (l *MemoryLimiter) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	found := false
	for key, r := range l.records {
		if !found || r.lastSeen.Before(oldest) {
			oldestKey = key
			oldest = r.lastSeen
			found = true
		}
	}
	if found {
		delete(l.records, oldestKey)
		logger.Warn("Rate limit store full, evicted least recently seen key", map[string]interface{}{
			"max_keys": l.maxKeys,
		})
	}
}
