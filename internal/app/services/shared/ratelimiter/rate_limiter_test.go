package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttemptLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewAttemptLimiter(6, 3).(*AttemptLimiter)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("s-1"), "attempt %d within burst", i+1)
	}
	assert.False(t, limiter.Allow("s-1"), "burst exhausted")
	assert.True(t, limiter.Allow("s-2"), "keys are independent")

	now = now.Add(10 * time.Second)
	assert.True(t, limiter.Allow("s-1"), "one token refilled after 10s at 6/min")
	assert.False(t, limiter.Allow("s-1"))
}

func TestAttemptLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewAttemptLimiter(5, 1).(*AttemptLimiter)
	limiter.now = func() time.Time { return now }

	limiter.Allow("s-1")
	limiter.Allow("s-2")
	assert.Len(t, limiter.limiters, 2)

	now = now.Add(11 * time.Minute)
	limiter.Allow("s-3")
	assert.Len(t, limiter.limiters, 1)
}
