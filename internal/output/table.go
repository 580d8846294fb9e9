package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ivalero/montaje/internal/model"
)

const timeLayout = "02-01-2006 15:04"

// TableFormatter renders a plan as an aligned text table.
type TableFormatter struct {
	opts FormatterOptions
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(opts FormatterOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Format writes the plan as a header, a task table and optionally the
// per-department summary.
func (f *TableFormatter) Format(w io.Writer, plan *model.Plan) error {
	fmt.Fprintf(w, "Plan %s: %d units of %s\n", plan.ID, plan.Units, plan.KitCode)
	fmt.Fprintf(w, "Start: %s  End: %s  Workdays: %.2f\n\n",
		plan.Start.Format(timeLayout), plan.End.Format(timeLayout), plan.Workdays)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDEPARTMENT\tWORKER\tSTART\tEND\tMINUTES\tWORKDAYS")
	for _, t := range plan.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
			t.Name, t.Department.Label(), t.Worker,
			t.Start.Format(timeLayout), t.End.Format(timeLayout),
			t.Minutes, t.Workdays)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if f.opts.ShowReasons {
		fmt.Fprintln(w)
		for _, t := range plan.Tasks {
			fmt.Fprintf(w, "%s: %s\n", t.Name, t.StartReason)
		}
	}

	if f.opts.ShowSummary {
		fmt.Fprintln(w)
		if err := f.writeSummary(w, plan); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) writeSummary(w io.Writer, plan *model.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tTASKS\tMINUTES\tHOURS\tSHIFTS")
	for _, s := range Summarize(plan, f.opts.WorkdayMinutes) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\n",
			s.Department.Label(), s.Tasks, s.Minutes, s.Hours, s.Shifts)
	}
	return tw.Flush()
}
