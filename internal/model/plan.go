package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Task is a unit of work for one department on one product, before it
// has been placed on the calendar.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ProductCode string     `json:"product_code"`
	Department  Department `json:"department"`
	WorkerType  int        `json:"worker_type"`
	Minutes     float64    `json:"minutes"`
	DependsOn   []string   `json:"depends_on,omitempty"`
}

// PlannedTask is a task that the scheduler has assigned to a worker and
// placed on the calendar.
type PlannedTask struct {
	Task
	Worker      string    `json:"worker"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Workdays    float64   `json:"workdays"`
	StartReason string    `json:"start_reason"`
}

// Plan is the result of scheduling a kit build: every task placed, plus
// the bounds of the whole run.
type Plan struct {
	ID        string        `json:"id"`
	KitCode   string        `json:"kit_code"`
	Units     int           `json:"units"`
	CreatedAt time.Time     `json:"created_at"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Workdays  float64       `json:"workdays"`
	Tasks     []PlannedTask `json:"tasks"`
}

// NewPlan creates an empty plan with a fresh ULID.
func NewPlan(kitCode string, units int) (*Plan, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating plan id: %w", err)
	}
	return &Plan{
		ID:        id.String(),
		KitCode:   kitCode,
		Units:     units,
		CreatedAt: time.Now(),
	}, nil
}

// Finalize computes the plan bounds from its tasks.
func (p *Plan) Finalize() {
	if len(p.Tasks) == 0 {
		return
	}
	p.Start = p.Tasks[0].Start
	p.End = p.Tasks[0].End
	for _, t := range p.Tasks[1:] {
		if t.Start.Before(p.Start) {
			p.Start = t.Start
		}
		if t.End.After(p.End) {
			p.End = t.End
		}
	}
}

// TasksByDepartment groups the planned tasks by department, preserving
// task order within each group.
func (p *Plan) TasksByDepartment() map[Department][]PlannedTask {
	out := make(map[Department][]PlannedTask)
	for _, t := range p.Tasks {
		out[t.Department] = append(out[t.Department], t)
	}
	return out
}
