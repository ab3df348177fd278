// Package render turns a replay plan into scripts and documents.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pb33f/harplay/motor"
)

// Formats lists the names accepted by ForFormat.
var Formats = []string{"rails", "json", "yaml"}

// ForFormat returns the renderer registered under name.
func ForFormat(name string) (motor.Renderer, error) {
	switch strings.ToLower(name) {
	case "", "rails", "runner":
		return NewRails(), nil
	case "json":
		return &JSON{Indent: "  "}, nil
	case "yaml", "yml":
		return &YAML{Indent: 2}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", name, strings.Join(Formats, ", "))
	}
}

// document is the machine-readable shape shared by the json and yaml renderers.
type document struct {
	Archive  string            `json:"archive,omitempty" yaml:"archive,omitempty"`
	Login    login             `json:"login" yaml:"login"`
	Token    string            `json:"token_header,omitempty" yaml:"token_header,omitempty"`
	Requests []motor.Directive `json:"requests" yaml:"requests"`
}

type login struct {
	Path   string            `json:"path" yaml:"path"`
	Params map[string]string `json:"params" yaml:"params"`
}

func newDocument(plan *motor.Plan) document {
	return document{
		Archive: plan.ArchiveHash,
		Login: login{
			Path: plan.LoginPath,
			Params: map[string]string{
				plan.UserParam:     plan.Credentials.Username,
				plan.PasswordParam: plan.Credentials.Password,
			},
		},
		Token:    plan.TokenHeader,
		Requests: plan.Directives,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
