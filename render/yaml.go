package render

import (
	"io"

	"github.com/pb33f/harplay/motor"
	"gopkg.in/yaml.v3"
)

// YAML writes the plan as a YAML document.
type YAML struct {
	Indent int
}

func (r *YAML) Name() string { return "yaml" }

func (r *YAML) Render(w io.Writer, plan *motor.Plan) error {
	encoder := yaml.NewEncoder(w)
	if r.Indent > 0 {
		encoder.SetIndent(r.Indent)
	}
	if err := encoder.Encode(newDocument(plan)); err != nil {
		return err
	}
	return encoder.Close()
}
