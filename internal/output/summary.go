package output

import (
	"math"

	"github.com/ivalero/montaje/internal/model"
)

// DeptSummary aggregates the workload of one department.
type DeptSummary struct {
	Department model.Department `json:"department"`
	Tasks      int              `json:"tasks"`
	Minutes    float64          `json:"minutes"`
	Hours      float64          `json:"hours"`
	Shifts     float64          `json:"shifts"`
}

// Summarize totals the plan per department in phase order. Shifts is
// the workload expressed in whole shifts of workdayMinutes.
func Summarize(plan *model.Plan, workdayMinutes int) []DeptSummary {
	totals := make(map[model.Department]*DeptSummary)
	for _, t := range plan.Tasks {
		s, ok := totals[t.Department]
		if !ok {
			s = &DeptSummary{Department: t.Department}
			totals[t.Department] = s
		}
		s.Tasks++
		s.Minutes += t.Minutes
	}

	out := make([]DeptSummary, 0, len(totals))
	for _, dept := range model.DepartmentOrder {
		s, ok := totals[dept]
		if !ok {
			continue
		}
		s.Hours = round2(s.Minutes / 60)
		s.Shifts = round2(s.Minutes / float64(workdayMinutes))
		out = append(out, *s)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
