package motor

import (
	"io"
)

// Plan is everything a Renderer needs to write a replay script.
type Plan struct {
	// LoginPath is the endpoint the script posts Credentials to, using
	// UserParam and PasswordParam as the form field names.
	LoginPath     string
	UserParam     string
	PasswordParam string
	Credentials   Credentials
	Directives    []Directive

	// TokenHeader is sent with the refreshed anti-forgery token.
	TokenHeader string

	// ArchiveHash identifies the archive the plan was built from, when known.
	ArchiveHash string
}

// Renderer serializes a Plan into an executable script or document.
// Implementations are pure: the same plan always produces the same output.
type Renderer interface {
	// Render writes the script for plan to w
	Render(w io.Writer, plan *Plan) error

	// Name identifies the output format, e.g. "rails"
	Name() string
}
