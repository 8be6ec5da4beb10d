package ratelimit

import (
	"strings"
)

// unlimited is returned for endpoints that are never rate limited.
var unlimited = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact patterns win over prefix patterns; earlier entries win among equals.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		cfg := unlimited
		return &cfg
	}

	var prefix *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if strings.HasSuffix(config.Path, "/") {
			if prefix == nil && matchPrefix(config.Path, path) {
				prefix = config
			}
			continue
		}
		if matchSegments(splitPath(config.Path), splitPath(path)) {
			return config
		}
	}
	return prefix
}

// matchPrefix reports whether path starts with the pattern's segments.
func matchPrefix(pattern, path string) bool {
	want := splitPath(pattern)
	got := splitPath(path)
	if len(got) <= len(want) {
		return false
	}
	return matchSegments(want, got[:len(want)])
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}
