// Package scope decides whether key specs for an application are handled.
package scope

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultApps are the application names Sublime Text reports on Linux.
var DefaultApps = []string{
	"Sublime Text",
	"Sublime Text 4",
	"Sublime Text 3",
	"sublime_text",
}

// Matcher matches application names against a fixed set of patterns.
// Plain patterns match exactly; patterns written as /expr/ are regular
// expressions.
type Matcher struct {
	names        map[string]struct{}
	patterns     []*regexp.Regexp
	allowUnknown bool
}

// New compiles patterns into a Matcher. allowUnknown controls whether an
// empty application name is in scope.
func New(patterns []string, allowUnknown bool) (*Matcher, error) {
	m := &Matcher{
		names:        make(map[string]struct{}, len(patterns)),
		allowUnknown: allowUnknown,
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
			re, err := regexp.Compile(p[1 : len(p)-1])
			if err != nil {
				return nil, fmt.Errorf("app pattern %s: %w", p, err)
			}
			m.patterns = append(m.patterns, re)
			continue
		}
		m.names[p] = struct{}{}
	}
	return m, nil
}

// Match reports whether app is in scope.
func (m *Matcher) Match(app string) bool {
	if app == "" {
		return m.allowUnknown
	}
	if _, ok := m.names[app]; ok {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(app) {
			return true
		}
	}
	return false
}
