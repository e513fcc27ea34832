package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiterBlocksAfterLimit(t *testing.T) {
	ctx := context.Background()
	limiter := NewLocalLimiter(2, time.Hour)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}

	decision, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))

	other, err := limiter.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestLocalLimiterRefills(t *testing.T) {
	ctx := context.Background()
	limiter := NewLocalLimiter(1, time.Minute)
	current := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	first, _ := limiter.Allow(ctx, "k")
	second, _ := limiter.Allow(ctx, "k")
	assert.True(t, first.Allowed)
	assert.False(t, second.Allowed)

	current = current.Add(time.Minute)
	third, _ := limiter.Allow(ctx, "k")
	assert.True(t, third.Allowed)
}

func TestLocalLimiterDropsIdleKeys(t *testing.T) {
	ctx := context.Background()
	limiter := NewLocalLimiter(2, time.Minute)
	current := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for _, key := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		decision, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	}
	assert.Len(t, limiter.limiters, 3)

	current = current.Add(30 * time.Second)
	_, err := limiter.Allow(ctx, "203.0.113.4")
	require.NoError(t, err)
	assert.Len(t, limiter.limiters, 4)

	current = current.Add(2 * time.Minute)
	decision, err := limiter.Allow(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Len(t, limiter.limiters, 1)
}

func TestLocalLimiterKeepsThrottledKeysAcrossSweeps(t *testing.T) {
	ctx := context.Background()
	limiter := NewLocalLimiter(1, time.Hour)
	current := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	first, _ := limiter.Allow(ctx, "k")
	assert.True(t, first.Allowed)

	current = current.Add(59 * time.Minute)
	limiter.lastSweep = time.Time{}
	second, _ := limiter.Allow(ctx, "k")
	assert.False(t, second.Allowed)
}
