package motor

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pb33f/harhar"
	"github.com/stretchr/testify/require"
)

// testEntry describes one archive entry for inline fixtures
type testEntry struct {
	method  string
	url     string
	time    float64
	headers map[string]string
	params  [][2]string
}

func (e testEntry) toHAR() harhar.Entry {
	entry := harhar.Entry{
		Time: e.time,
		Request: harhar.Request{
			Method:      e.method,
			URL:         e.url,
			HTTPVersion: "HTTP/1.1",
		},
		Timings: harhar.Timings{Send: 1, Wait: e.time, Receive: 1},
	}
	for name, value := range e.headers {
		entry.Request.Headers = append(entry.Request.Headers, harhar.NameValuePair{Name: name, Value: value})
	}
	for _, p := range e.params {
		entry.Request.Body.Params = append(entry.Request.Body.Params, harhar.PostNameValuePair{Name: p[0], Value: p[1]})
	}
	if len(e.params) > 0 {
		entry.Request.Body.MIMEType = "application/x-www-form-urlencoded"
	}
	return entry
}

// buildHAR marshals entries into a HAR document
func buildHAR(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	har := harhar.HAR{
		Log: harhar.Log{
			Version: "1.2",
			Creator: harhar.Creator{Name: "harplay-test", Version: "1.0.0"},
		},
	}
	for _, e := range entries {
		har.Log.Entries = append(har.Log.Entries, e.toHAR())
	}
	data, err := json.Marshal(har)
	require.NoError(t, err)
	return data
}

// extractRecords runs the default extractor over entries
func extractRecords(t *testing.T, entries ...testEntry) []*RequestRecord {
	t.Helper()
	archive, err := NewExtractor(DefaultExclusions()).ExtractBytes(buildHAR(t, entries...))
	require.NoError(t, err)
	return archive.Records
}

func get(url string) testEntry {
	return testEntry{method: "GET", url: url, time: 10}
}

func withToken(e testEntry, token string) testEntry {
	e.headers = map[string]string{"X-CSRF-Token": token}
	return e
}

func loginEntry(user, password string) testEntry {
	return testEntry{
		method: "POST",
		url:    "http://localhost:3000/dashboard/authenticate",
		time:   250,
		params: [][2]string{{"user_name", user}, {"user_password", password}},
	}
}

func rawHAR(entries ...string) []byte {
	return []byte(fmt.Sprintf(`{"log":{"version":"1.2","entries":[%s]}}`, strings.Join(entries, ",")))
}
