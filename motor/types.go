package motor

import (
	"strings"

	"github.com/pb33f/harhar"
)

// RequestRecord is the normalized view of one surviving archive entry.
// The entry-level time and timings are carried alongside the request so
// downstream stages never need the original entry.
type RequestRecord struct {
	Method  string
	URL     string
	Time    float64
	Timings harhar.Timings
	Headers []harhar.NameValuePair
	Params  []harhar.PostNameValuePair
}

// Header returns the value of the first header matching name.
// Header names are compared case-insensitively.
func (r *RequestRecord) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Param returns the value of the first post parameter called name.
func (r *RequestRecord) Param(name string) (string, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// LoginRecord is the request that authenticated the recorded session.
type LoginRecord struct {
	*RequestRecord
}

// Credentials holds the username and password posted by the login request.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Directive is the minimal instruction needed to re-issue one request.
type Directive struct {
	Method       string            `json:"method" yaml:"method"`
	Path         string            `json:"path" yaml:"path"`
	RefreshToken bool              `json:"fetch_new_csrf_token,omitempty" yaml:"fetch_new_csrf_token,omitempty"`
	Params       map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Profile      bool              `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// Archive is the result of extracting a HAR document.
type Archive struct {
	Records  []*RequestRecord
	Total    int
	Excluded int
	Size     int64
	Hash     string
	Creator  string
}

// Session is the result of a single build pass over extracted records.
type Session struct {
	Login      *LoginRecord
	Directives []Directive

	// LoginAttempts counts every record that matched the login endpoint.
	LoginAttempts int
}

// Profiled returns the number of directives flagged for profiling.
func (s *Session) Profiled() int {
	n := 0
	for _, d := range s.Directives {
		if d.Profile {
			n++
		}
	}
	return n
}

// TokenRefreshes returns the number of directives that refresh the token.
func (s *Session) TokenRefreshes() int {
	n := 0
	for _, d := range s.Directives {
		if d.RefreshToken {
			n++
		}
	}
	return n
}
