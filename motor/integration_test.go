package motor

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/pb33f/harplay/hargen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateSessionHAR writes a generated session archive and returns its path
func generateSessionHAR(t *testing.T, opts hargen.GenerateOptions) (string, *hargen.Expectation) {
	t.Helper()
	result, err := hargen.Generate(opts)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(result.HARFilePath) })
	return result.HARFilePath, result.Expectation
}

func TestPipeline_GeneratedSession(t *testing.T) {
	path, expect := generateSessionHAR(t, hargen.GenerateOptions{
		EntryCount:     40,
		NoiseCount:     25,
		TokenRotations: 4,
		SlowCount:      3,
		LoginRetries:   2,
		Seed:           42,
	})

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	archive, err := NewExtractor(DefaultExclusions()).Extract(file)
	require.NoError(t, err)
	assert.Equal(t, expect.Excluded, archive.Excluded)

	opts := DefaultSessionOptions()
	opts.AutoProfile = true
	session := BuildSession(archive.Records, opts)

	assert.Equal(t, expect.LoginAttempts, session.LoginAttempts)
	assert.Equal(t, expect.TokenRefreshes, session.TokenRefreshes())
	assert.Equal(t, expect.Slow, session.Profiled())

	paths := make([]string, 0, len(session.Directives))
	for _, d := range session.Directives {
		paths = append(paths, d.Path)
		if d.Params != nil {
			assert.NotEmpty(t, d.Params)
			assert.NotContains(t, d.Params, DefaultTokenParam)
		}
	}
	assert.Equal(t, expect.Paths, paths)

	plan, err := NewPlan(session, opts)
	require.NoError(t, err)
	assert.Equal(t, expect.Username, plan.Credentials.Username)
	assert.Equal(t, expect.Password, plan.Credentials.Password)
}

func TestPipeline_GeneratedSessionWithoutLogin(t *testing.T) {
	path, _ := generateSessionHAR(t, hargen.GenerateOptions{EntryCount: 5, NoiseCount: 2, SkipLogin: true, Seed: 11})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	archive, err := NewExtractor(DefaultExclusions()).ExtractBytes(data)
	require.NoError(t, err)

	session := BuildSession(archive.Records, DefaultSessionOptions())
	assert.Len(t, session.Directives, 5)

	var out bytes.Buffer
	err = GenerateRunner(session, DefaultSessionOptions(), &lineRenderer{}, &out)
	var missing *MissingCredentialsError
	assert.ErrorAs(t, err, &missing)
	assert.Zero(t, out.Len())
}

func TestPipeline_DirectiveJSONShape(t *testing.T) {
	records := extractRecords(t,
		loginEntry("a", "b"),
		withToken(testEntry{method: "POST", url: "http://h/vm/tree", time: 20000,
			params: [][2]string{{"authenticity_token", "t"}, {"id", "1"}}}, "A"),
		get("http://h/vm/show"),
	)
	opts := DefaultSessionOptions()
	opts.AutoProfile = true

	data, err := json.Marshal(BuildSession(records, opts).Directives)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"method": "post", "path": "/vm/tree", "fetch_new_csrf_token": true, "params": {"id": "1"}, "benchmark": true},
		{"method": "get", "path": "/vm/show"}
	]`, string(data))
}
