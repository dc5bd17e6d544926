package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	allowed, err := limiter.CheckRateLimit(ctx, "user:1", 2, time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.CheckRateLimit(ctx, "user:1", 2, time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.CheckRateLimit(ctx, "user:1", 2, time.Hour)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Another key is unaffected
	allowed, err = limiter.CheckRateLimit(ctx, "user:2", 2, time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimiterWindowReset(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	window := 10 * time.Millisecond
	allowed, err := limiter.CheckRateLimit(ctx, "user:1", 1, window)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.CheckRateLimit(ctx, "user:1", 1, window)
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(window + 5*time.Millisecond)

	allowed, err = limiter.CheckRateLimit(ctx, "user:1", 1, window)
	require.NoError(t, err)
	assert.True(t, allowed)
}
