// Package output provides output formatters for plans.
package output

import (
	"io"

	"github.com/ivalero/montaje/internal/model"
)

// Formatter formats a plan for output.
type Formatter interface {
	// Format writes the formatted plan to the writer.
	Format(w io.Writer, plan *model.Plan) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatCSV   FormatType = "csv"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatCSV:
		return NewCSVFormatter(opts)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	WorkdayMinutes int  // Shift length, for the department summary
	ShowSummary    bool // Append the per-department summary (table only)
	ShowReasons    bool // Include start reasons (table only)
}

// DefaultFormatterOptions returns sensible defaults for table output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		WorkdayMinutes: 465,
		ShowSummary:    true,
		ShowReasons:    false,
	}
}
