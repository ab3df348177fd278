package motor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSession_EndToEnd(t *testing.T) {
	records := extractRecords(t,
		loginEntry("a", "b"),
		get("http://localhost:3000/api?x=1"),
		get("http://localhost:3000/assets/app.js"),
	)
	require.Len(t, records, 2)

	session := BuildSession(records, DefaultSessionOptions())

	require.NotNil(t, session.Login)
	creds, err := session.Login.Credentials(DefaultSessionOptions().Login)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "a", Password: "b"}, creds)

	assert.Equal(t, []Directive{{Method: "get", Path: "/api?x=1"}}, session.Directives)
}

func TestBuildSession_TokenRefreshOnChange(t *testing.T) {
	records := extractRecords(t,
		withToken(get("http://h/one"), "A"),
		withToken(get("http://h/two"), "A"),
		withToken(get("http://h/three"), "B"),
		withToken(get("http://h/four"), "B"),
		withToken(get("http://h/five"), "C"),
	)

	session := BuildSession(records, DefaultSessionOptions())
	require.Len(t, session.Directives, 5)

	var flags []bool
	for _, d := range session.Directives {
		flags = append(flags, d.RefreshToken)
	}
	assert.Equal(t, []bool{true, false, true, false, true}, flags)
	assert.Equal(t, 3, session.TokenRefreshes())
}

func TestBuildSession_MissingTokenKeepsCursor(t *testing.T) {
	records := extractRecords(t,
		withToken(get("http://h/one"), "A"),
		get("http://h/two"),
		withToken(get("http://h/three"), "A"),
	)

	session := BuildSession(records, DefaultSessionOptions())
	require.Len(t, session.Directives, 3)
	assert.True(t, session.Directives[0].RefreshToken)
	assert.False(t, session.Directives[1].RefreshToken)
	assert.False(t, session.Directives[2].RefreshToken, "cursor must survive requests without the header")
}

func TestBuildSession_CustomTokenHeader(t *testing.T) {
	entry := get("http://h/one")
	entry.headers = map[string]string{"X-XSRF-Token": "A"}
	records := extractRecords(t, entry)

	opts := DefaultSessionOptions()
	assert.False(t, BuildSession(records, opts).Directives[0].RefreshToken)

	opts.TokenHeader = "X-XSRF-Token"
	assert.True(t, BuildSession(records, opts).Directives[0].RefreshToken)
}

func TestBuildSession_ParamExtraction(t *testing.T) {
	onlyToken := testEntry{method: "POST", url: "http://h/vm/button", params: [][2]string{{"authenticity_token", "xyz"}}}
	mixed := testEntry{method: "POST", url: "http://h/vm/tree", params: [][2]string{
		{"authenticity_token", "xyz"},
		{"id", "vm-12"},
		{"tab", "summary"},
	}}
	none := testEntry{method: "POST", url: "http://h/vm/refresh"}

	session := BuildSession(extractRecords(t, onlyToken, mixed, none), DefaultSessionOptions())
	require.Len(t, session.Directives, 3)

	assert.Nil(t, session.Directives[0].Params, "token-only params must be omitted entirely")
	assert.Equal(t, map[string]string{"id": "vm-12", "tab": "summary"}, session.Directives[1].Params)
	assert.Nil(t, session.Directives[2].Params)
	assert.Equal(t, "post", session.Directives[1].Method)
}

func TestBuildSession_ProfilingThreshold(t *testing.T) {
	slow := get("http://h/slow")
	slow.time = 10001
	edge := get("http://h/edge")
	edge.time = 10000
	fast := get("http://h/fast")
	fast.time = 12

	records := extractRecords(t, slow, edge, fast)

	opts := DefaultSessionOptions()
	opts.AutoProfile = true
	session := BuildSession(records, opts)
	require.Len(t, session.Directives, 3)
	assert.True(t, session.Directives[0].Profile)
	assert.False(t, session.Directives[1].Profile, "threshold is strict")
	assert.False(t, session.Directives[2].Profile)
	assert.Equal(t, 1, session.Profiled())

	opts.AutoProfile = false
	assert.Equal(t, 0, BuildSession(records, opts).Profiled())

	opts.AutoProfile = true
	opts.ProfileThreshold = 10
	assert.Equal(t, 3, BuildSession(records, opts).Profiled())
}

func TestBuildSession_PreservesOrder(t *testing.T) {
	records := extractRecords(t,
		get("http://h/1"),
		loginEntry("u", "p"),
		get("http://h/2"),
		get("http://h/assets/x.js"),
		get("http://h/3"),
		get("http://h/4"),
	)

	session := BuildSession(records, DefaultSessionOptions())

	var paths []string
	for _, d := range session.Directives {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"/1", "/2", "/3", "/4"}, paths)
	assert.Len(t, records, 5, "input records must not be modified")
}

func TestBuildSession_RetriedLoginKeepsLast(t *testing.T) {
	records := extractRecords(t,
		loginEntry("admin", "wrong"),
		get("http://h/dashboard/show"),
		loginEntry("admin", "smartvm"),
		get("http://h/vm/explorer"),
	)

	session := BuildSession(records, DefaultSessionOptions())

	assert.Equal(t, 2, session.LoginAttempts)
	creds, err := session.Login.Credentials(LoginOptions{})
	require.NoError(t, err)
	assert.Equal(t, "smartvm", creds.Password)

	for _, d := range session.Directives {
		assert.NotEqual(t, "/dashboard/authenticate", d.Path)
	}
	assert.Len(t, session.Directives, 2)
}

func TestBuildSession_LoginRequiresPost(t *testing.T) {
	records := extractRecords(t, get("http://h/dashboard/authenticate"))

	session := BuildSession(records, DefaultSessionOptions())
	assert.Nil(t, session.Login)
	require.Len(t, session.Directives, 1)
	assert.Equal(t, "/dashboard/authenticate", session.Directives[0].Path)
}

func TestBuildSession_CustomLoginPath(t *testing.T) {
	login := loginEntry("u", "p")
	login.url = "http://h/users/sign_in"

	opts := DefaultSessionOptions()
	opts.Login.Path = "/users/sign_in"
	session := BuildSession(extractRecords(t, login, get("http://h/home")), opts)

	require.NotNil(t, session.Login)
	assert.Len(t, session.Directives, 1)
}

func TestBuildSession_LoginUnderSubPath(t *testing.T) {
	login := loginEntry("admin", "smartvm")
	login.url = "http://h/ui/dashboard/authenticate?button=login"

	session := BuildSession(extractRecords(t, login, get("http://h/ui/dashboard/show")), DefaultSessionOptions())

	require.NotNil(t, session.Login)
	creds, err := session.Login.Credentials(LoginOptions{})
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)
	require.Len(t, session.Directives, 1)
	assert.Equal(t, "/ui/dashboard/show", session.Directives[0].Path)
}

func TestBuildSession_ZeroThresholdUsesDefault(t *testing.T) {
	slow := get("http://h/slow")
	slow.time = DefaultProfileThreshold + 1
	fast := get("http://h/fast")
	fast.time = 500

	session := BuildSession(extractRecords(t, slow, fast), SessionOptions{AutoProfile: true})

	require.Len(t, session.Directives, 2)
	assert.True(t, session.Directives[0].Profile)
	assert.False(t, session.Directives[1].Profile)
}

func TestBuildSession_Empty(t *testing.T) {
	session := BuildSession(nil, SessionOptions{})
	assert.Nil(t, session.Login)
	assert.NotNil(t, session.Directives)
	assert.Empty(t, session.Directives)
}

func TestCredentials_Missing(t *testing.T) {
	var missing *MissingCredentialsError

	session := BuildSession(extractRecords(t, get("http://h/home")), DefaultSessionOptions())
	_, err := session.Login.Credentials(LoginOptions{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &missing))
	assert.Contains(t, err.Error(), "no login request")

	noPassword := loginEntry("admin", "")
	noPassword.params = [][2]string{{"user_name", "admin"}}
	session = BuildSession(extractRecords(t, noPassword), DefaultSessionOptions())
	require.NotNil(t, session.Login)
	_, err = session.Login.Credentials(LoginOptions{})
	require.Error(t, err)
	assert.True(t, errors.As(err, &missing))
	assert.Contains(t, err.Error(), "user_password")

	noUser := loginEntry("", "secret")
	noUser.params = [][2]string{{"user_password", "secret"}}
	session = BuildSession(extractRecords(t, noUser), DefaultSessionOptions())
	_, err = session.Login.Credentials(LoginOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_name")
}

func TestFold(t *testing.T) {
	sum := fold([]int{1, 2, 3, 4}, 0, func(acc, n int) int { return acc + n })
	assert.Equal(t, 10, sum)
	assert.Equal(t, "x", fold(nil, "x", func(acc string, n int) string { return acc + "!" }))
}
