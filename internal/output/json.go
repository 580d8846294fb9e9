package output

import (
	"encoding/json"
	"io"

	"github.com/ivalero/montaje/internal/model"
)

// JSONFormatter formats a plan as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

type jsonPlan struct {
	*model.Plan
	Summary []DeptSummary `json:"summary"`
}

// Format writes the plan and its department summary as JSON.
func (f *JSONFormatter) Format(w io.Writer, plan *model.Plan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonPlan{
		Plan:    plan,
		Summary: Summarize(plan, f.opts.WorkdayMinutes),
	})
}
