package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/planner"
)

var estimateOpts struct {
	kit      string
	units    int
	overhead float64

	// Either a day target or per-department headcounts
	days        float64
	electronics int
	mechanics   int
	assembly    int

	json bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Quick capacity arithmetic for a kit order",
	Long: `Estimate workload for a kit order without running the scheduler.

Two modes, one flag set each:
  --days N          how many workers per department to finish in N days
  --electronics/--mechanics/--assembly
                    how many days the order takes with those headcounts

Phases are assumed to run back to back and worker types are ignored; use
the plan command for the real schedule.

Examples:
  montaje estimate --kit KIT-01 --units 10 --days 5
  montaje estimate --kit KIT-01 --units 10 --electronics 3 --mechanics 2 --assembly 4`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVar(&estimateOpts.kit, "kit", "",
		"Kit code to estimate (required)")
	estimateCmd.Flags().IntVar(&estimateOpts.units, "units", 1,
		"Number of units to build")
	estimateCmd.Flags().Float64Var(&estimateOpts.overhead, "overhead", 0,
		"Overhead factor on optimal minutes (default from config)")
	estimateCmd.Flags().Float64Var(&estimateOpts.days, "days", 0,
		"Target days; computes workers needed per department")
	estimateCmd.Flags().IntVar(&estimateOpts.electronics, "electronics", 0,
		"Electronics workers; computes days needed")
	estimateCmd.Flags().IntVar(&estimateOpts.mechanics, "mechanics", 0,
		"Mechanics workers; computes days needed")
	estimateCmd.Flags().IntVar(&estimateOpts.assembly, "assembly", 0,
		"Assembly workers; computes days needed")
	estimateCmd.Flags().BoolVar(&estimateOpts.json, "json", false,
		"Output as JSON")

	_ = estimateCmd.MarkFlagRequired("kit")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	overhead := estimateOpts.overhead
	if overhead == 0 {
		overhead = cfg.Planning.Overhead
	}
	workdayMinutes := cfg.Planning.WorkdayMinutes

	haveWorkers := estimateOpts.electronics > 0 || estimateOpts.mechanics > 0 || estimateOpts.assembly > 0
	if estimateOpts.days > 0 && haveWorkers {
		return fmt.Errorf("use either --days or per-department workers, not both")
	}
	if estimateOpts.days <= 0 && !haveWorkers {
		return fmt.Errorf("specify --days or per-department workers")
	}

	var est *planner.Estimate
	var err error
	if estimateOpts.days > 0 {
		est, err = planner.EstimateWorkers(ctx, getStore(), estimateOpts.kit,
			estimateOpts.units, overhead, workdayMinutes, estimateOpts.days)
	} else {
		workers := map[model.Department]int{
			model.DeptElectronics: estimateOpts.electronics,
			model.DeptMechanics:   estimateOpts.mechanics,
			model.DeptAssembly:    estimateOpts.assembly,
		}
		est, err = planner.EstimateDays(ctx, getStore(), estimateOpts.kit,
			estimateOpts.units, overhead, workdayMinutes, workers)
	}
	if err != nil {
		return err
	}

	if estimateOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(est)
	}

	fmt.Printf("Estimate for %d units of %s\n\n", est.Units, est.KitCode)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEPARTMENT\tMINUTES\tWORKERS\tDAYS")
	for _, d := range est.Depts {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\n", d.Department.Label(), d.Minutes, d.Workers, d.Days)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %.2f days\n", est.TotalDays)
	return nil
}
