package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ivalero/montaje/internal/model"
)

// CSVFormatter formats a plan as CSV, one row per task.
type CSVFormatter struct {
	opts FormatterOptions
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(opts FormatterOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Format writes the plan's tasks as CSV with a header row.
func (f *CSVFormatter) Format(w io.Writer, plan *model.Plan) error {
	cw := csv.NewWriter(w)
	header := []string{
		"task", "department", "worker_type", "worker",
		"start", "end", "minutes", "workdays", "depends_on", "start_reason",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range plan.Tasks {
		row := []string{
			t.Name,
			t.Department.Label(),
			fmt.Sprintf("%d", t.WorkerType),
			t.Worker,
			t.Start.Format(timeLayout),
			t.End.Format(timeLayout),
			fmt.Sprintf("%.2f", t.Minutes),
			fmt.Sprintf("%.2f", t.Workdays),
			strings.Join(t.DependsOn, " "),
			t.StartReason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
