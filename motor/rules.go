package motor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MatchMode defines how a rule pattern is compared with a request path
type MatchMode int

const (
	Prefix MatchMode = iota
	Exact
	Regex
)

func (m MatchMode) String() string {
	switch m {
	case Prefix:
		return "prefix"
	case Exact:
		return "exact"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// Rule matches the path and query of a request URL.
type Rule struct {
	Name    string
	Mode    MatchMode
	Pattern string
	regex   *regexp.Regexp
}

// RuleSet is an ordered list of rules; the first matching rule wins.
type RuleSet []Rule

// DefaultExclusions returns the traffic that never exercises the backend:
// assets, static pages, dashboard widgets, notification polling, auth pings
// and the bare api root.
func DefaultExclusions() RuleSet {
	return RuleSet{
		{Name: "assets", Mode: Prefix, Pattern: "/assets"},
		{Name: "static", Mode: Prefix, Pattern: "/static"},
		{Name: "dashboard widgets", Mode: Prefix, Pattern: "/dashboard/widget"},
		{Name: "notifications websocket", Mode: Prefix, Pattern: "/ws/notifications"},
		{Name: "notifications api", Mode: Prefix, Pattern: "/api/notifications"},
		{Name: "auth api", Mode: Prefix, Pattern: "/api/auth"},
		{Name: "api root", Mode: Exact, Pattern: "/api"},
	}
}

// NewRule builds a rule, compiling the pattern when mode is Regex.
func NewRule(name string, mode MatchMode, pattern string) (Rule, error) {
	r := Rule{Name: name, Mode: mode, Pattern: pattern}
	if pattern == "" {
		return r, fmt.Errorf("rule %q has an empty pattern", name)
	}
	if mode == Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return r, fmt.Errorf("invalid regex pattern: %w", err)
		}
		r.regex = re
	}
	return r, nil
}

// ParseRule parses the "mode:pattern" form used in configuration, for example
// "prefix:/reports", "exact:/ping" or "regex:^/api/v[0-9]+/metrics".
// A value without a recognised mode is treated as a prefix.
func ParseRule(value string) (Rule, error) {
	mode, pattern := Prefix, value
	if before, after, ok := strings.Cut(value, ":"); ok {
		switch strings.ToLower(before) {
		case "prefix":
			mode, pattern = Prefix, after
		case "exact":
			mode, pattern = Exact, after
		case "regex":
			mode, pattern = Regex, after
		}
	}
	return NewRule(value, mode, pattern)
}

// Matches checks the rule against a request URI (path plus optional query).
func (r Rule) Matches(requestURI string) bool {
	switch r.Mode {
	case Exact:
		return requestURI == r.Pattern
	case Regex:
		if r.regex == nil {
			r.regex = regexp.MustCompile(r.Pattern)
		}
		return r.regex.MatchString(requestURI)
	default:
		return strings.HasPrefix(requestURI, r.Pattern)
	}
}

// Match returns the first rule matching rawURL.
func (rs RuleSet) Match(rawURL string) (Rule, bool) {
	uri, err := RequestURI(rawURL)
	if err != nil {
		return Rule{}, false
	}
	for _, r := range rs {
		if r.Matches(uri) {
			return r, true
		}
	}
	return Rule{}, false
}

// With returns a copy of rs with extra appended.
func (rs RuleSet) With(extra ...Rule) RuleSet {
	out := make(RuleSet, 0, len(rs)+len(extra))
	out = append(out, rs...)
	return append(out, extra...)
}

// RequestURI strips scheme and host from rawURL, keeping the escaped path
// and, when present, the query string.
func RequestURI(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" || u.ForceQuery {
		path += "?" + u.RawQuery
	}
	return path, nil
}
