package rate_limit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_CheckRateLimit_WithinLimits_AllowsRequest(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 10, 20)
	key := uuid.NewString()

	result, err := rateLimiter.CheckRateLimit(key)

	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 19, result.Remaining)
	assert.Equal(t, 0, result.RetryAfterSec)
	assert.True(t, result.ResetTime.After(time.Now().Add(-time.Second)))
}

func Test_CheckRateLimit_ExceedsBurstLimit_DeniesRequest(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 2)
	key := uuid.NewString()

	for i := 0; i < 2; i++ {
		result, err := rateLimiter.CheckRateLimit(key)
		assert.NoError(t, err)
		assert.True(t, result.Allowed, "Request %d should be allowed", i+1)
	}

	result, err := rateLimiter.CheckRateLimit(key)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.True(t, result.RetryAfterSec > 0)
	assert.True(t, result.ResetTime.After(time.Now()))
}

func Test_CheckRateLimit_TokensRefillOverTime_AllowsRequestsAfterWait(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 10, 1)
	key := uuid.NewString()

	result, err := rateLimiter.CheckRateLimit(key)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = rateLimiter.CheckRateLimit(key)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	time.Sleep(150 * time.Millisecond)

	result, err = rateLimiter.CheckRateLimit(key)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func Test_CheckRateLimit_KeysAreIsolated(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 1)
	first := uuid.NewString()
	second := uuid.NewString()

	result, _ := rateLimiter.CheckRateLimit(first)
	assert.True(t, result.Allowed)
	result, _ = rateLimiter.CheckRateLimit(first)
	assert.False(t, result.Allowed)

	result, _ = rateLimiter.CheckRateLimit(second)
	assert.True(t, result.Allowed)
}

func Test_ResetRateLimit_RestoresFullBucket(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 1)
	key := uuid.NewString()

	result, _ := rateLimiter.CheckRateLimit(key)
	assert.True(t, result.Allowed)
	result, _ = rateLimiter.CheckRateLimit(key)
	assert.False(t, result.Allowed)

	assert.NoError(t, rateLimiter.ResetRateLimit(key))

	result, _ = rateLimiter.CheckRateLimit(key)
	assert.True(t, result.Allowed)
}

func Test_CheckRateLimit_WithIdleKeys_EvictsTheirBuckets(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 1)
	rateLimiter.idleTTL = 20 * time.Millisecond

	for i := 0; i < 100; i++ {
		_, err := rateLimiter.CheckRateLimit(uuid.NewString())
		assert.NoError(t, err)
	}
	assert.Equal(t, 100, localBucketCount(rateLimiter))

	time.Sleep(30 * time.Millisecond)

	_, err := rateLimiter.CheckRateLimit(uuid.NewString())
	assert.NoError(t, err)
	assert.Equal(t, 1, localBucketCount(rateLimiter))
}

func Test_CheckRateLimit_WithActiveKey_KeepsBucketAcrossSweeps(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 1)
	rateLimiter.idleTTL = 200 * time.Millisecond
	key := uuid.NewString()

	result, _ := rateLimiter.CheckRateLimit(key)
	assert.True(t, result.Allowed)

	time.Sleep(120 * time.Millisecond)
	result, _ = rateLimiter.CheckRateLimit(key)
	assert.False(t, result.Allowed)

	time.Sleep(120 * time.Millisecond)
	result, _ = rateLimiter.CheckRateLimit(key)
	assert.False(t, result.Allowed, "an exhausted bucket in use must not be reset by a sweep")
}

func Test_NewLocalRateLimiter_WithSlowRefill_KeepsBucketsUntilFull(t *testing.T) {
	rateLimiter := NewLocalRateLimiter("signin", 1, 600)

	assert.Equal(t, 600*time.Second, rateLimiter.idleTTL)
}

func localBucketCount(rateLimiter *KeyedRateLimiter) int {
	rateLimiter.mu.Lock()
	defer rateLimiter.mu.Unlock()

	return len(rateLimiter.limiters)
}
