package render

import (
	"encoding/json"
	"io"

	"github.com/pb33f/harplay/motor"
)

// JSON writes the plan as a single JSON document.
type JSON struct {
	Indent string
}

func (r *JSON) Name() string { return "json" }

func (r *JSON) Render(w io.Writer, plan *motor.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", r.Indent)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(newDocument(plan))
}
