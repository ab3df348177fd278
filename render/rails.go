package render

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/pb33f/harplay/motor"
)

//go:embed templates/rails_runner.rb.tmpl
var railsTemplate string

// Rails writes a `rails runner` script that logs in and replays each
// directive through the integration session (`app`).
type Rails struct {
	tmpl *template.Template
}

// NewRails parses the embedded runner template.
func NewRails() *Rails {
	tmpl := template.Must(template.New("rails_runner").
		Funcs(template.FuncMap{
			"ruby":     rubyString,
			"rubyHash": rubyHash,
		}).
		Parse(railsTemplate))
	return &Rails{tmpl: tmpl}
}

func (r *Rails) Name() string { return "rails" }

func (r *Rails) Render(w io.Writer, plan *motor.Plan) error {
	if plan.TokenHeader == "" {
		withHeader := *plan
		withHeader.TokenHeader = motor.DefaultTokenHeader
		plan = &withHeader
	}
	return r.tmpl.Execute(w, plan)
}

// rubyString quotes s as a double-quoted ruby literal with interpolation
// disabled. Non-printable runes use ruby's \u escapes, \u{...} above the BMP.
func rubyString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02X`, s[i])
			i++
			continue
		}
		i += size

		if esc, ok := rubyEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		switch {
		case strconv.IsPrint(r):
			b.WriteRune(r)
		case r < utf8.RuneSelf:
			fmt.Fprintf(&b, `\x%02X`, r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			fmt.Fprintf(&b, `\u{%X}`, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

var rubyEscapes = map[rune]string{
	'"':  `\"`,
	'\\': `\\`,
	'#':  `\#`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\a': `\a`,
	'\b': `\b`,
	'\f': `\f`,
	'\v': `\v`,
	0x1b: `\e`,
}

func rubyHash(m map[string]string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range sortedKeys(m) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rubyString(k))
		b.WriteString(" => ")
		b.WriteString(rubyString(m[k]))
	}
	b.WriteString("}")
	return b.String()
}
