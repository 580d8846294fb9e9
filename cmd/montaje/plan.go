package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivalero/montaje/internal/gantt"
	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/output"
	"github.com/ivalero/montaje/internal/planner"
	"github.com/ivalero/montaje/internal/profile"
	"github.com/ivalero/montaje/internal/workcal"
)

var planOpts struct {
	kit      string
	units    int
	profile  string
	overhead float64

	// Output options
	format  string
	reasons bool
	gantt   string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a production plan for a kit order",
	Long: `Build a production plan for a kit order.

The plan profile (TOML) supplies per-department workers, task order and
phase start dates, plus an optional worker transfer from mechanics to
assembly. The scheduler assigns workers over the working calendar and
reports start and end per task.

Examples:
  # Plan 4 units with the default table output
  montaje plan --kit KIT-01 --units 4 --profile march.toml

  # Detailed CSV plus an HTML Gantt chart
  montaje plan --kit KIT-01 --units 4 --profile march.toml \
    --format csv --gantt plan.html

  # Show why each task started when it did
  montaje plan --kit KIT-01 --units 4 --profile march.toml --reasons`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planOpts.kit, "kit", "",
		"Kit code to plan (required)")
	planCmd.Flags().IntVar(&planOpts.units, "units", 1,
		"Number of units to build")
	planCmd.Flags().StringVar(&planOpts.profile, "profile", "",
		"Path to the plan profile TOML (required)")
	planCmd.Flags().Float64Var(&planOpts.overhead, "overhead", 0,
		"Overhead factor on optimal minutes (default from config)")
	planCmd.Flags().StringVarP(&planOpts.format, "format", "f", "",
		"Output format (table, json, csv; default from config)")
	planCmd.Flags().BoolVar(&planOpts.reasons, "reasons", false,
		"Include start reasons in table output")
	planCmd.Flags().StringVar(&planOpts.gantt, "gantt", "",
		"Write an HTML Gantt chart to this path")

	_ = planCmd.MarkFlagRequired("kit")
	_ = planCmd.MarkFlagRequired("profile")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prof, err := profile.Load(planOpts.profile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	cal, err := cfg.Calendar()
	if err != nil {
		return fmt.Errorf("invalid calendar config: %w", err)
	}

	overhead := planOpts.overhead
	if overhead == 0 {
		overhead = cfg.Planning.Overhead
	}

	plan, err := planner.Build(ctx, getStore(), prof, cal, planner.Options{
		KitCode:  planOpts.kit,
		Units:    planOpts.units,
		Overhead: overhead,
	})
	if err != nil {
		return err
	}

	if planOpts.gantt != "" {
		if err := writeGantt(plan, cal); err != nil {
			return err
		}
	}

	formatter := createPlanFormatter()
	return formatter.Format(os.Stdout, plan)
}

// createPlanFormatter creates the output formatter based on options.
func createPlanFormatter() output.Formatter {
	name := planOpts.format
	if name == "" && cfg != nil {
		name = cfg.Output.Format
	}

	var format output.FormatType
	switch strings.ToLower(name) {
	case "json":
		format = output.FormatJSON
	case "csv":
		format = output.FormatCSV
	default:
		format = output.FormatTable
	}

	opts := output.DefaultFormatterOptions()
	opts.ShowReasons = planOpts.reasons
	if cfg != nil && cfg.Planning.WorkdayMinutes > 0 {
		opts.WorkdayMinutes = cfg.Planning.WorkdayMinutes
	}

	return output.NewFormatter(format, opts)
}

func writeGantt(plan *model.Plan, cal *workcal.Calendar) error {
	f, err := os.Create(planOpts.gantt)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	chart := gantt.New(cfg.Chart.ScriptURL)
	bands := cal.NonWorkBands(plan.Start, plan.End)
	if err := chart.Render(f, plan, bands); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	logger.Debug("gantt chart written", "path", planOpts.gantt)
	return nil
}
