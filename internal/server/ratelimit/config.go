package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	// Path is matched segment by segment; "*" matches any one segment and a
	// trailing "/" matches any suffix.
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !config.EnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.EnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(config.EnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(config.EnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Browser-backed exports
		{Path: "/drafts/*/export.pdf", Method: "GET", Limit: 20, Window: time.Hour, Burst: 3},

		// Credential endpoints
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/me/password", Method: "PUT", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/password", Method: "PUT", Limit: 10, Window: time.Hour, Burst: 3},

		// Writes
		{Path: "/drafts", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/drafts/*/finish", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/drafts/*/form-data", Method: "PATCH", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads fall back to the default limit; /health is never limited.
	}
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
