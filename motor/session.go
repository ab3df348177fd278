package motor

import (
	"strings"

	"github.com/pb33f/harhar"
)

const (
	DefaultLoginPath        = "/dashboard/authenticate"
	DefaultUserParam        = "user_name"
	DefaultPasswordParam    = "user_password"
	DefaultTokenHeader      = "X-CSRF-Token"
	DefaultTokenParam       = "authenticity_token"
	DefaultProfileThreshold = 10000.0
)

// LoginOptions describes the authentication endpoint of the recorded application.
type LoginOptions struct {
	Path          string
	UserParam     string
	PasswordParam string
}

// SessionOptions configures a single build pass.
type SessionOptions struct {
	Login LoginOptions

	// TokenHeader carries the anti-forgery token on recorded requests.
	TokenHeader string
	// TokenParam is the form parameter the token is posted as; it is never replayed.
	TokenParam string

	AutoProfile bool
	// ProfileThreshold is in milliseconds and compared strictly. Zero or a
	// negative value selects DefaultProfileThreshold.
	ProfileThreshold float64
}

// DefaultSessionOptions returns the conventions of the recorded application.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Login: LoginOptions{
			Path:          DefaultLoginPath,
			UserParam:     DefaultUserParam,
			PasswordParam: DefaultPasswordParam,
		},
		TokenHeader:      DefaultTokenHeader,
		TokenParam:       DefaultTokenParam,
		ProfileThreshold: DefaultProfileThreshold,
	}
}

func (o SessionOptions) withDefaults() SessionOptions {
	d := DefaultSessionOptions()
	if o.Login.Path == "" {
		o.Login.Path = d.Login.Path
	}
	if o.Login.UserParam == "" {
		o.Login.UserParam = d.Login.UserParam
	}
	if o.Login.PasswordParam == "" {
		o.Login.PasswordParam = d.Login.PasswordParam
	}
	if o.TokenHeader == "" {
		o.TokenHeader = d.TokenHeader
	}
	if o.TokenParam == "" {
		o.TokenParam = d.TokenParam
	}
	if o.ProfileThreshold <= 0 {
		o.ProfileThreshold = d.ProfileThreshold
	}
	return o
}

// IsLogin reports whether rec is a POST whose request URI contains the login
// path, so applications mounted under a sub-path are matched too.
func (o LoginOptions) IsLogin(rec *RequestRecord) bool {
	if !strings.EqualFold(rec.Method, "POST") {
		return false
	}
	uri, err := RequestURI(rec.URL)
	if err != nil {
		return false
	}
	return strings.Contains(uri, o.Path)
}

// BuildSession removes the login request from records and folds the rest
// into replay directives. Every login attempt is dropped from the sequence;
// the last one is kept as the session login since a retried login is the one
// that succeeded. records itself is not modified.
func BuildSession(records []*RequestRecord, opts SessionOptions) *Session {
	opts = opts.withDefaults()

	session := &Session{}
	remaining := make([]*RequestRecord, 0, len(records))
	for _, rec := range records {
		if opts.Login.IsLogin(rec) {
			session.Login = &LoginRecord{RequestRecord: rec}
			session.LoginAttempts++
			continue
		}
		remaining = append(remaining, rec)
	}

	state := fold(remaining, directiveState{}, func(s directiveState, rec *RequestRecord) directiveState {
		return s.next(rec, opts)
	})
	session.Directives = state.directives
	if session.Directives == nil {
		session.Directives = []Directive{}
	}

	return session
}

// directiveState is the accumulator threaded through the build fold.
type directiveState struct {
	lastToken  string
	directives []Directive
}

func (s directiveState) next(rec *RequestRecord, opts SessionOptions) directiveState {
	// urls were validated during extraction
	path, _ := RequestURI(rec.URL)

	d := Directive{
		Method: strings.ToLower(rec.Method),
		Path:   path,
	}

	if token, ok := rec.Header(opts.TokenHeader); ok && token != s.lastToken {
		d.RefreshToken = true
		s.lastToken = token
	}

	d.Params = directiveParams(rec.Params, opts.TokenParam)

	if opts.AutoProfile && rec.Time > opts.ProfileThreshold {
		d.Profile = true
	}

	s.directives = append(s.directives, d)
	return s
}

// directiveParams returns nil when nothing is left after dropping the token parameter.
func directiveParams(params []harhar.PostNameValuePair, tokenParam string) map[string]string {
	var out map[string]string
	for _, p := range params {
		if p.Name == tokenParam {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(params))
		}
		out[p.Name] = p.Value
	}
	return out
}

func fold[T, S any](items []T, initial S, fn func(S, T) S) S {
	acc := initial
	for _, item := range items {
		acc = fn(acc, item)
	}
	return acc
}

// Credentials reads the username and password posted by the login request.
func (l *LoginRecord) Credentials(opts LoginOptions) (Credentials, error) {
	if l == nil || l.RequestRecord == nil {
		return Credentials{}, &MissingCredentialsError{Reason: "no login request found in archive"}
	}
	if opts.UserParam == "" {
		opts.UserParam = DefaultUserParam
	}
	if opts.PasswordParam == "" {
		opts.PasswordParam = DefaultPasswordParam
	}

	user, ok := l.Param(opts.UserParam)
	if !ok {
		return Credentials{}, &MissingCredentialsError{Reason: "login request has no " + opts.UserParam + " parameter"}
	}
	password, ok := l.Param(opts.PasswordParam)
	if !ok {
		return Credentials{}, &MissingCredentialsError{Reason: "login request has no " + opts.PasswordParam + " parameter"}
	}

	return Credentials{Username: user, Password: password}, nil
}
