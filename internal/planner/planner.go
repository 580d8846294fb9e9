// Package planner turns a kit build order into a finished plan by
// wiring the catalogue, the plan profile, the calendar and the
// scheduler together.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/profile"
	"github.com/ivalero/montaje/internal/schedule"
	"github.com/ivalero/montaje/internal/store"
	"github.com/ivalero/montaje/internal/workcal"
)

// Options configures one plan run.
type Options struct {
	KitCode  string
	Units    int
	Overhead float64
}

// Build loads the kit, expands it into tasks per the profile and runs
// the scheduler.
func Build(ctx context.Context, st *store.Store, prof *profile.Profile, cal *workcal.Calendar, opts Options) (*model.Plan, error) {
	if opts.Units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", opts.Units)
	}
	if opts.Overhead < 1 {
		return nil, fmt.Errorf("overhead must be at least 1, got %g", opts.Overhead)
	}

	items, err := st.BuildOrder(ctx, opts.KitCode)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("kit %s has no buildable products", opts.KitCode)
	}

	required := make(map[model.Department]bool)
	for _, item := range items {
		required[item.Product.Department] = true
	}
	if err := prof.Validate(required, cal); err != nil {
		return nil, err
	}

	byDept := prof.OrderItems(items)
	tasks := schedule.BuildTasks(byDept, opts.Units, opts.Overhead)

	resources := schedule.NewResources(prof.Headcounts(), cal)
	for workerType, count := range prof.TransferRequests() {
		resources.Transfer(model.DeptMechanics, model.DeptAssembly, workerType, count)
	}

	start, err := prof.StartDate()
	if err != nil {
		return nil, err
	}

	planned, err := schedule.NewScheduler(resources, cal, start).Run(tasks)
	if err != nil {
		return nil, err
	}

	plan, err := model.NewPlan(opts.KitCode, opts.Units)
	if err != nil {
		return nil, err
	}
	plan.Tasks = planned
	plan.Finalize()
	plan.Workdays = cal.CountWorkdays(plan.Start, plan.End)

	slog.Info("plan built",
		"plan", plan.ID, "kit", opts.KitCode, "units", opts.Units,
		"tasks", len(planned), "workdays", plan.Workdays)
	return plan, nil
}
