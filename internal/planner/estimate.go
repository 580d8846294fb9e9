package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/store"
)

// DeptEstimate is the rough workload of one department, assuming its
// phase runs on its own.
type DeptEstimate struct {
	Department model.Department `json:"department"`
	Minutes    float64          `json:"minutes"`
	Workers    int              `json:"workers"`
	Days       float64          `json:"days"`
}

// Estimate is a quick capacity answer that ignores task dependencies
// and worker types: phases run back to back, each department's minutes
// spread evenly over its workers.
type Estimate struct {
	KitCode   string         `json:"kit_code"`
	Units     int            `json:"units"`
	Depts     []DeptEstimate `json:"departments"`
	TotalDays float64        `json:"total_days"`
}

// EstimateDays answers "how long with this many workers": workload per
// department divided by its headcount, phases summed.
func EstimateDays(ctx context.Context, st *store.Store, kitCode string, units int, overhead float64, workdayMinutes int, workers map[model.Department]int) (*Estimate, error) {
	est, err := baseEstimate(ctx, st, kitCode, units, overhead)
	if err != nil {
		return nil, err
	}

	for i := range est.Depts {
		n := workers[est.Depts[i].Department]
		if n <= 0 {
			return nil, fmt.Errorf("no workers given for %s", est.Depts[i].Department)
		}
		est.Depts[i].Workers = n
		est.Depts[i].Days = round2(est.Depts[i].Minutes / (float64(n) * float64(workdayMinutes)))
		est.TotalDays += est.Depts[i].Days
	}
	est.TotalDays = round2(est.TotalDays)
	return est, nil
}

// EstimateWorkers answers "how many workers to finish in N days": each
// department gets the headcount that fits its minutes into the target,
// phases sharing the days evenly.
func EstimateWorkers(ctx context.Context, st *store.Store, kitCode string, units int, overhead float64, workdayMinutes int, targetDays float64) (*Estimate, error) {
	if targetDays <= 0 {
		return nil, fmt.Errorf("target days must be positive, got %g", targetDays)
	}

	est, err := baseEstimate(ctx, st, kitCode, units, overhead)
	if err != nil {
		return nil, err
	}

	daysPerPhase := targetDays / float64(len(est.Depts))
	for i := range est.Depts {
		capacity := daysPerPhase * float64(workdayMinutes)
		est.Depts[i].Workers = int(math.Ceil(est.Depts[i].Minutes / capacity))
		est.Depts[i].Days = round2(daysPerPhase)
	}
	est.TotalDays = round2(targetDays)
	return est, nil
}

func baseEstimate(ctx context.Context, st *store.Store, kitCode string, units int, overhead float64) (*Estimate, error) {
	if units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", units)
	}

	items, err := st.BuildOrder(ctx, kitCode)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("kit %s has no buildable products", kitCode)
	}

	minutes := make(map[model.Department]float64)
	for _, item := range items {
		minutes[item.Product.Department] += item.Minutes() * overhead * float64(units)
	}

	est := &Estimate{KitCode: kitCode, Units: units}
	for _, dept := range model.DepartmentOrder {
		if m, ok := minutes[dept]; ok {
			est.Depts = append(est.Depts, DeptEstimate{Department: dept, Minutes: round2(m)})
		}
	}
	return est, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
