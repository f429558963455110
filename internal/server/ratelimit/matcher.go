package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the first configuration whose method and path pattern match, or
// nil. Patterns match segment by segment and "*" matches any single segment. The health
// check is never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: "/health", Method: method}
	}

	segments := splitPath(path)
	for i := range configs {
		c := &configs[i]
		if c.Method == method && matchSegments(splitPath(c.Path), segments) {
			return c
		}
	}
	return nil
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != segments[i] {
			return false
		}
	}
	return true
}
