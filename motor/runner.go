package motor

import (
	"bytes"
	"fmt"
	"io"
)

// NewPlan resolves the session credentials and pairs them with its directives.
// It fails with a *MissingCredentialsError when the session has no usable login.
func NewPlan(session *Session, opts SessionOptions) (*Plan, error) {
	opts = opts.withDefaults()

	creds, err := session.Login.Credentials(opts.Login)
	if err != nil {
		return nil, err
	}

	return &Plan{
		LoginPath:     opts.Login.Path,
		UserParam:     opts.Login.UserParam,
		PasswordParam: opts.Login.PasswordParam,
		Credentials:   creds,
		Directives:    session.Directives,
		TokenHeader:   opts.TokenHeader,
	}, nil
}

// GenerateRunner renders the replay script for session into w. Nothing is
// written to w unless rendering succeeds as a whole.
func GenerateRunner(session *Session, opts SessionOptions, renderer Renderer, w io.Writer) error {
	plan, err := NewPlan(session, opts)
	if err != nil {
		return err
	}
	return RenderPlan(plan, renderer, w)
}

// RenderPlan renders plan into a buffer and copies it to w on success.
func RenderPlan(plan *Plan, renderer Renderer, w io.Writer) error {
	if renderer == nil {
		return fmt.Errorf("no renderer configured")
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, plan); err != nil {
		return fmt.Errorf("failed to render %s script: %w", renderer.Name(), err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s script: %w", renderer.Name(), err)
	}
	return nil
}
