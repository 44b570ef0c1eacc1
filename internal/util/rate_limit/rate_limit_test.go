package rate_limit

import (
	"testing"
	"time"

	test_utils "logkeeper/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_CheckRateLimit_WithinLimits_AllowsRequest(t *testing.T) {
	test_utils.SkipIfNoCache(t)

	rateLimiter := NewRateLimiter("test")
	clientKey := uuid.New().String()
	rpsLimit := 10
	burstLimit := 20

	// Clean up any existing data
	rateLimiter.ResetRateLimit(clientKey)

	result, err := rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)

	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, burstLimit-1, result.Remaining) // Should have burst - 1 tokens remaining
	assert.Equal(t, 0, result.RetryAfterSec)
	assert.True(t, result.ResetTime.After(time.Now().Add(-time.Second)))
}

func Test_CheckRateLimit_ExceedsBurstLimit_DeniesRequest(t *testing.T) {
	test_utils.SkipIfNoCache(t)

	rateLimiter := NewRateLimiter("test")
	clientKey := uuid.New().String()
	rpsLimit := 1   // Very low RPS to make it easy to exceed
	burstLimit := 2 // Small burst limit

	rateLimiter.ResetRateLimit(clientKey)

	// Consume the burst tokens
	for i := 0; i < burstLimit; i++ {
		result, err := rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)
		assert.NoError(t, err)
		assert.True(t, result.Allowed, "Request %d should be allowed", i+1)
	}

	// The next request should be denied
	result, err := rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.True(t, result.RetryAfterSec > 0)
	assert.True(t, result.ResetTime.After(time.Now()))
}

func Test_CheckRateLimit_TokensRefillOverTime_AllowsRequestsAfterWait(t *testing.T) {
	test_utils.SkipIfNoCache(t)

	rateLimiter := NewRateLimiter("test")
	clientKey := uuid.New().String()
	rpsLimit := 10  // 10 RPS means 1 token every 100ms
	burstLimit := 1 // Only 1 token in the bucket

	rateLimiter.ResetRateLimit(clientKey)

	result, err := rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	// 100ms for 1 token at 10 RPS, plus some buffer
	time.Sleep(150 * time.Millisecond)

	result, err = rateLimiter.CheckRateLimit(clientKey, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func Test_CheckRateLimit_DifferentKeysAndScopes_IsolatedLimits(t *testing.T) {
	test_utils.SkipIfNoCache(t)

	importLimiter := NewRateLimiter("import")
	otherLimiter := NewRateLimiter("other")
	clientKey1 := uuid.New().String()
	clientKey2 := uuid.New().String()

	importLimiter.ResetRateLimit(clientKey1)
	importLimiter.ResetRateLimit(clientKey2)
	otherLimiter.ResetRateLimit(clientKey1)

	result, err := importLimiter.CheckRateLimit(clientKey1, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = importLimiter.CheckRateLimit(clientKey1, 1, 1)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	// other client, same scope
	result, err = importLimiter.CheckRateLimit(clientKey2, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	// same client, other scope
	result, err = otherLimiter.CheckRateLimit(clientKey1, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func Test_ResetRateLimit_ClearsRateLimitData(t *testing.T) {
	test_utils.SkipIfNoCache(t)

	rateLimiter := NewRateLimiter("test")
	clientKey := uuid.New().String()

	rateLimiter.ResetRateLimit(clientKey)

	result, err := rateLimiter.CheckRateLimit(clientKey, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = rateLimiter.CheckRateLimit(clientKey, 1, 1)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	err = rateLimiter.ResetRateLimit(clientKey)
	assert.NoError(t, err)

	// full bucket again
	result, err = rateLimiter.CheckRateLimit(clientKey, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}
