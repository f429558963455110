package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    5,
		DefaultWindow:   time.Minute,
		EndpointConfigs: endpoints,
	}
}

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/clients", "GET")
		require.True(t, allowed, "request %d", i)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/api/clients", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Now()))

	// other clients have their own bucket
	allowed, _ = l.Allow("10.0.0.2", "/api/clients", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/api/clients", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/api/clients", "GET")
	require.False(t, allowed)

	// one token every 12s at 5 per minute
	now = now.Add(13 * time.Second)
	allowed, _ = l.Allow("c", "/api/clients", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	cfg.Whitelist = map[string]bool{"good": true}
	cfg.Blacklist = map[string]bool{"bad": true}
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("good", "/api/clients", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("bad", "/api/clients", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()
	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("c", "/api/clients", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointPatternSharesBucket(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{Path: "/api/*/*", Method: "DELETE", Limit: 2, Window: time.Minute}))
	defer l.Stop()

	allowed, _ := l.Allow("c", "/api/clients/1", "DELETE")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/api/employees/2", "DELETE")
	assert.True(t, allowed)
	allowed, info := l.Allow("c", "/api/requirements/3", "DELETE")
	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)

	// default-limited routes keep one bucket per path
	allowed, _ = l.Allow("c", "/api/clients", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3}))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("c", "/api/auth/login", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/api/auth/login", "POST")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := NewLimiter(cfg)
	defer l.Stop()
	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 50
	l := NewLimiter(cfg)
	defer l.Stop()

	var mu sync.Mutex
	allowedCount := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/api/timesheets", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_EvictIdle(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTTL = time.Minute
	l := NewLimiter(cfg)
	defer l.Stop()
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("a", "/api/clients", "GET")
	now = now.Add(30 * time.Second)
	l.Allow("b", "/api/clients", "GET")
	require.Equal(t, 2, l.Len())

	now = now.Add(45 * time.Second)
	l.evictIdle()
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_StopTwice(t *testing.T) {
	cfg := testConfig()
	cfg.CleanupInterval = time.Hour
	l := NewLimiter(cfg)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()
	allowed, info := l.Allow("c", "/api/clients", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method, want string
	}{
		{"/api/auth/login", "POST", "/api/auth/login"},
		{"/api/submissions/42/resume", "POST", "/api/submissions/*/resume"},
		{"/api/clients/export", "GET", "/api/*/export"},
		{"/api/clients", "POST", "/api/*"},
		{"/api/clients/42", "PUT", "/api/*/*"},
		{"/api/clients/42", "DELETE", "/api/*/*"},
		{"/api/clients", "GET", ""},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.want == "" {
			assert.Nil(t, got, tt.path)
			continue
		}
		require.NotNil(t, got, tt.path)
		assert.Equal(t, tt.want, got.Path, tt.path)
	}

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1, ::1")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["::1"])
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
