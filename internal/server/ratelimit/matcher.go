package ratelimit

import "strings"

// unmetered endpoints bypass the limiter entirely. The event stream is a
// single long-lived connection, not a request flood.
func unmetered(path, method string) bool {
	if method != "GET" {
		return false
	}
	return path == "/health" || path == "/events"
}

// MatchEndpoint resolves the configuration for a request path and method.
// Exact matches win over prefix matches; nil means use the default limit.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unmetered(path, method) {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
