package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"))
	assert.Equal(t, 0, rl.GetRemainingRequests("10.0.0.1"))
	assert.Equal(t, 2, rl.GetRemainingRequests("10.0.0.2"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.Equal(t, 1, rl.GetRemainingRequests("10.0.0.1"))

	rl.cleanup()
	assert.Len(t, rl.requests, 1)
}
