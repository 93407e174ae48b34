package ratelimiter

import (
	"checkout-service/internal/app/contracts"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AttemptLimiter is an in-memory token bucket per key. Keys idle for longer
// than idleTTL are dropped on the next Allow call after a sweep is due.
type AttemptLimiter struct {
	limiters  map[string]*keyedLimiter
	mu        sync.Mutex
	requests  int
	per       time.Duration
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewAttemptLimiter allows burst attempts at once, refilled at attemptsPerMinute.
func NewAttemptLimiter(attemptsPerMinute, burst int) contracts.AttemptLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &AttemptLimiter{
		limiters: make(map[string]*keyedLimiter),
		requests: burst,
		per:      time.Minute / time.Duration(attemptsPerMinute),
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (l *AttemptLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, exists := l.limiters[key]
	if !exists {
		entry = &keyedLimiter{limiter: rate.NewLimiter(rate.Every(l.per), l.requests)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (l *AttemptLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}
