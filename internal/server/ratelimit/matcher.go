package ratelimit

import "strings"

// unlimitedPaths are never rate limited, whatever the method.
var unlimitedPaths = map[string]bool{
	"/health": true,
}

// MatchEndpoint returns the configuration that applies to method and path, or nil when
// none does. An exact path wins over a prefix; among prefixes (paths ending in "/") the
// longest wins, so "/resume/" covers "/resume/pdf" and "/resume/stream".
// Unlimited paths match a zero-limit configuration.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedPaths[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
