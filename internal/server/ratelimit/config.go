package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a route pattern.
type EndpointConfig struct {
	Path   string        // Route pattern; "*" matches one path segment
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the route-specific limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential guessing
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},

		// Uploads and imports
		{Path: "/api/attachments", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/submissions/*/resume", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/timesheets/import", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},

		// Exports rebuild whole spreadsheets
		{Path: "/api/*/export", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/api/*", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/*/*", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/*/*", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
