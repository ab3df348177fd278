package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExclusions_Match(t *testing.T) {
	rules := DefaultExclusions()

	tests := []struct {
		url      string
		excluded bool
		rule     string
	}{
		{"http://localhost:3000/assets/application.js", true, "assets"},
		{"http://localhost:3000/static/about.html", true, "static"},
		{"http://localhost:3000/dashboard/widget_chart_data/12", true, "dashboard widgets"},
		{"ws://localhost:3000/ws/notifications", true, "notifications websocket"},
		{"http://localhost:3000/api/notifications?limit=10", true, "notifications api"},
		{"http://localhost:3000/api/auth?requester_type=ui", true, "auth api"},
		{"http://localhost:3000/api", true, "api root"},
		{"http://localhost:3000/api?attributes=identity", false, ""},
		{"http://localhost:3000/api/vms", false, ""},
		{"http://localhost:3000/dashboard/show", false, ""},
		{"http://localhost:3000/vm_cloud/explorer", false, ""},
		{"http://localhost:3000/dashboard/authenticate", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			rule, ok := rules.Match(tt.url)
			assert.Equal(t, tt.excluded, ok)
			if tt.excluded {
				assert.Equal(t, tt.rule, rule.Name)
			}
		})
	}
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	first, err := NewRule("first", Prefix, "/reports")
	require.NoError(t, err)
	second, err := NewRule("second", Exact, "/reports/daily")
	require.NoError(t, err)

	rule, ok := RuleSet{first, second}.Match("https://example.com/reports/daily")
	require.True(t, ok)
	assert.Equal(t, "first", rule.Name)
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		value   string
		mode    MatchMode
		pattern string
	}{
		{"prefix:/reports", Prefix, "/reports"},
		{"exact:/ping", Exact, "/ping"},
		{"regex:^/api/v[0-9]+/metrics", Regex, "^/api/v[0-9]+/metrics"},
		{"/plain", Prefix, "/plain"},
		{"PREFIX:/upper", Prefix, "/upper"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rule, err := ParseRule(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, rule.Mode)
			assert.Equal(t, tt.pattern, rule.Pattern)
		})
	}
}

func TestParseRule_Invalid(t *testing.T) {
	_, err := ParseRule("regex:([")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern")

	_, err = ParseRule("exact:")
	assert.Error(t, err)
}

func TestRegexRule_Matches(t *testing.T) {
	rule, err := ParseRule("regex:^/api/v[0-9]+/metrics")
	require.NoError(t, err)

	assert.True(t, rule.Matches("/api/v2/metrics?window=5m"))
	assert.False(t, rule.Matches("/api/metrics"))
}

func TestRuleSet_With(t *testing.T) {
	base := DefaultExclusions()
	extra, err := ParseRule("exact:/ping")
	require.NoError(t, err)

	combined := base.With(extra)
	assert.Len(t, combined, len(base)+1)
	assert.Len(t, base, 7, "base rule set must not be modified")

	_, ok := combined.Match("http://localhost/ping")
	assert.True(t, ok)
}

func TestRequestURI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:3000/api?x=1", "/api?x=1"},
		{"https://example.com/vm/show/10", "/vm/show/10"},
		{"https://example.com/a%20b?q=c%20d", "/a%20b?q=c%20d"},
		{"https://example.com", "/"},
		{"https://example.com/search?", "/search?"},
	}

	for _, tt := range tests {
		got, err := RequestURI(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := RequestURI("http://[::1")
	assert.Error(t, err)
}

func TestMatchMode_String(t *testing.T) {
	assert.Equal(t, "prefix", Prefix.String())
	assert.Equal(t, "exact", Exact.String())
	assert.Equal(t, "regex", Regex.String())
	assert.Equal(t, "unknown", MatchMode(42).String())
}
