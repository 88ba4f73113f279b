package ratelimit

import (
	"strings"
	"time"
)

// Limits applied to endpoints without their own configuration.
const (
	DefaultLimit           = 120
	DefaultWindow          = time.Minute
	DefaultBurst           = 20
	DefaultCleanupInterval = 5 * time.Minute
	DefaultIdleTTL         = time.Hour
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig returns a configuration that limits every analysis endpoint to
// requestsPerMinute per client with the given burst. A zero requestsPerMinute disables
// rate limiting.
func NewConfig(requestsPerMinute, burst int, whitelist string) *Config {
	if requestsPerMinute <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    DefaultLimit,
		DefaultWindow:   DefaultWindow,
		DefaultBurst:    DefaultBurst,
		CleanupInterval: DefaultCleanupInterval,
		IdleTTL:         DefaultIdleTTL,
		Whitelist:       parseIPList(whitelist),
		EndpointConfigs: AnalysisEndpointConfigs(requestsPerMinute, burst),
	}
}

// AnalysisEndpointConfigs returns the limits of the endpoints that start an analysis run.
func AnalysisEndpointConfigs(requestsPerMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/resume", Method: "POST", Limit: requestsPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/resume", Method: "GET", Limit: requestsPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/resume/", Method: "POST", Limit: requestsPerMinute, Window: time.Minute, Burst: burst},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
