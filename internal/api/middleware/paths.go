package middleware

import "strings"

// DefaultPublicPaths is the page allow-list used when none is configured.
// Entries ending in "*" match by prefix; all others must match exactly.
var DefaultPublicPaths = []string{
	"/",
	"/auth/login",
	"/auth/register",
	"/auth/forgot-password",
	"/api/auth/login",
	"/api/auth/register",
	"/find-work",
	"/find-talent",
	"/how-it-works",
	"/pricing",
}

// OperationalPaths are always public, whatever allow-list is configured.
var OperationalPaths = []string{
	"/health",
	"/health/*",
	"/metrics",
	"/swagger/*",
}

// PathMatcher classifies request paths against an allow-list.
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPathMatcher compiles entries into a matcher. Blank entries are ignored.
func NewPathMatcher(entries []string) *PathMatcher {
	m := &PathMatcher{exact: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(e, "*"); ok {
			m.prefixes = append(m.prefixes, prefix)
			continue
		}
		m.exact[e] = struct{}{}
	}
	return m
}

// Match reports whether path is on the allow-list.
func (m *PathMatcher) Match(path string) bool {
	if _, ok := m.exact[path]; ok {
		return true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
