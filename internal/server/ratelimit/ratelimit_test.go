package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for deterministic refills.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	config.CleanupInterval = 0
	l := NewLimiter(config)
	t.Cleanup(l.Stop)

	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func TestTokenBucket_Take(t *testing.T) {
	now := time.Now()
	bucket := newTokenBucket(10, 1.0, now)

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := bucket.take(now)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	allowed, remaining, reset := bucket.take(now)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, now.Add(10*time.Second), reset, "a full refill takes capacity/rate seconds")
}

func TestTokenBucket_Refill(t *testing.T) {
	now := time.Now()
	bucket := newTokenBucket(2, 1.0, now)

	bucket.take(now)
	bucket.take(now)
	allowed, _, _ := bucket.take(now)
	require.False(t, allowed)

	now = now.Add(1100 * time.Millisecond)
	allowed, _, _ = bucket.take(now)
	assert.True(t, allowed, "one token refilled after a second")
	allowed, _, _ = bucket.take(now)
	assert.False(t, allowed)

	now = now.Add(time.Hour)
	_, remaining, _ := bucket.take(now)
	assert.Equal(t, 1, remaining, "refill never exceeds capacity")
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)

	allowed, _ = limiter.Allow("10.0.0.2", "/questions", "GET")
	assert.True(t, allowed, "clients have separate buckets")
}

func TestLimiter_RefillOverTime(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions/*/chat", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
		},
	})

	allowed, _ := limiter.Allow("c", "/sessions/a/chat", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/sessions/a/chat", "POST")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("c", "/sessions/a/chat", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := limiter.Allow("192.168.1.1", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/sessions/x/analyze", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointPatternSharesBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(2, 20),
	})

	// Analyze burst is 3 across every session of the client.
	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("c", fmt.Sprintf("/sessions/s%d/analyze", i), "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/sessions/other/analyze", "POST")
	assert.False(t, allowed, "new session ids do not reset the budget")

	allowed, info := limiter.Allow("c", "/sessions/s1", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit, "unmatched paths use the default limit")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/questions", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Hour,
	})

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/questions", "GET")
	}

	clock.Advance(59 * time.Minute)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/questions", "GET")
	}

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 5, limiter.cleanupBuckets())
	assert.Len(t, limiter.buckets, 5)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)

	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/sessions/*/analyze", Method: "POST"},
		{Path: "/sessions/*/analyze/stream", Method: "POST"},
		{Path: "/shared/", Method: "GET"},
		{Path: "/sessions", Method: "POST"},
	}

	tests := []struct {
		path   string
		method string
		want   string
	}{
		{"/sessions/abc/analyze", "POST", "/sessions/*/analyze"},
		{"/sessions/abc/analyze/stream", "POST", "/sessions/*/analyze/stream"},
		{"/sessions/abc/analyze", "GET", ""},
		{"/sessions/abc", "POST", ""},
		{"/sessions", "POST", "/sessions"},
		{"/shared/123", "GET", "/shared/"},
		{"/shared/", "GET", ""},
		{"/health", "GET", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_ANALYZE_PER_HOUR", "4")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)

	analyze := MatchEndpoint("/sessions/x/analyze", "POST", cfg.EndpointConfigs)
	require.NotNil(t, analyze)
	assert.Equal(t, 4, analyze.Limit)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
