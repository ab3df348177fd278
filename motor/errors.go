package motor

import (
	"fmt"
)

// ParseError reports a malformed or structurally incomplete archive.
// Entry is the zero-based entry index, or -1 when the document itself is at fault.
type ParseError struct {
	Entry  int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Entry >= 0 {
		msg = fmt.Sprintf("entry %d: %s", e.Entry, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid archive: %s: %v", msg, e.Err)
	}
	return "invalid archive: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func documentError(reason string, err error) *ParseError {
	return &ParseError{Entry: -1, Reason: reason, Err: err}
}

// MissingCredentialsError is returned when a runner script is requested but
// the archive holds no usable login request.
type MissingCredentialsError struct {
	Reason string
}

func (e *MissingCredentialsError) Error() string {
	return "missing credentials: " + e.Reason
}
