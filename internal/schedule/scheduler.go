package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/workcal"
)

// ErrDeadlock means no remaining task can ever be scheduled, either
// because its dependencies form a cycle or because no pool exists for
// its department and worker type.
var ErrDeadlock = errors.New("scheduling deadlock")

type scheduledTask struct {
	task   model.Task
	worker *Worker
	start  time.Time
	end    time.Time
	reason string
	placed bool
}

// Scheduler places a task list onto the resource pools using a greedy
// earliest-start strategy: at every step the schedulable task that
// could begin soonest is committed.
type Scheduler struct {
	resources   *Resources
	cal         *workcal.Calendar
	globalStart time.Time
}

// NewScheduler builds a scheduler starting no earlier than globalStart,
// which is truncated to midnight of its day.
func NewScheduler(resources *Resources, cal *workcal.Calendar, globalStart time.Time) *Scheduler {
	start := time.Date(globalStart.Year(), globalStart.Month(), globalStart.Day(), 0, 0, 0, 0, globalStart.Location())
	return &Scheduler{resources: resources, cal: cal, globalStart: start}
}

// Run schedules every task and returns them sorted by start time.
func (s *Scheduler) Run(tasks []model.Task) ([]model.PlannedTask, error) {
	state := make(map[string]*scheduledTask, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		state[t.ID] = &scheduledTask{task: t}
		order = append(order, t.ID)
	}

	remaining := len(tasks)
	for remaining > 0 {
		next, depsEnd, potentialStart := s.pickNext(state, order)
		if next == nil {
			return nil, s.deadlockErr(state, order)
		}

		pool := s.resources.Pool(next.task.Department, next.task.WorkerType)
		worker, start, end, ok := pool.Assign(potentialStart, next.task.Minutes)
		if !ok {
			return nil, fmt.Errorf("%w: no worker for task %q (%s T%d)",
				ErrDeadlock, next.task.Name, next.task.Department, next.task.WorkerType)
		}

		next.worker = worker
		next.start = start
		next.end = end
		next.reason = s.startReason(next, worker, pool, depsEnd, potentialStart)
		next.placed = true
		remaining--

		slog.Debug("task scheduled",
			"task", next.task.ID, "name", next.task.Name,
			"worker", worker.ID, "start", start, "end", end)
	}

	planned := make([]model.PlannedTask, 0, len(tasks))
	for _, id := range order {
		st := state[id]
		planned = append(planned, model.PlannedTask{
			Task:        st.task,
			Worker:      st.worker.ID,
			Start:       st.start,
			End:         st.end,
			Workdays:    s.cal.CountWorkdays(st.start, st.end),
			StartReason: st.reason,
		})
	}
	sort.SliceStable(planned, func(i, j int) bool {
		return planned[i].Start.Before(planned[j].Start)
	})
	return planned, nil
}

// pickNext finds the unplaced task with the earliest potential start:
// after its dependencies, after a worker frees up and never before the
// global start. Ties keep input order.
func (s *Scheduler) pickNext(state map[string]*scheduledTask, order []string) (best *scheduledTask, bestDepsEnd, bestStart time.Time) {
	for _, id := range order {
		st := state[id]
		if st.placed {
			continue
		}

		depsEnd, met := s.depsEnd(state, st.task.DependsOn)
		if !met {
			continue
		}

		pool := s.resources.Pool(st.task.Department, st.task.WorkerType)
		if pool == nil {
			continue
		}
		workerAvail, ok := pool.EarliestAvailable()
		if !ok {
			continue
		}

		potential := s.globalStart
		if depsEnd.After(potential) {
			potential = depsEnd
		}
		if workerAvail.After(potential) {
			potential = workerAvail
		}

		if best == nil || potential.Before(bestStart) {
			best = st
			bestDepsEnd = depsEnd
			bestStart = potential
		}
	}
	return best, bestDepsEnd, bestStart
}

// depsEnd returns when the latest dependency finishes. met is false
// while any dependency is still unscheduled.
func (s *Scheduler) depsEnd(state map[string]*scheduledTask, deps []string) (time.Time, bool) {
	var end time.Time
	for _, depID := range deps {
		dep, ok := state[depID]
		if !ok || !dep.placed {
			return time.Time{}, false
		}
		if dep.end.After(end) {
			end = dep.end
		}
	}
	return end, true
}

func (s *Scheduler) startReason(st *scheduledTask, worker *Worker, pool *WorkerPool, depsEnd, potentialStart time.Time) string {
	var parts []string

	if st.start.After(potentialStart) {
		parts = append(parts, fmt.Sprintf("Waited for %s to finish a previous task.", worker.ID))
	} else {
		parts = append(parts, fmt.Sprintf("Worker %s available.", worker.ID))
	}

	if len(st.task.DependsOn) > 0 {
		deps := strings.Join(st.task.DependsOn, ", ")
		switch {
		case st.start.Equal(depsEnd):
			parts = append(parts, fmt.Sprintf("Started when all dependencies finished (%s).", deps))
		case st.start.After(depsEnd):
			parts = append(parts, fmt.Sprintf("Dependencies (%s) already finished.", deps))
		default:
			parts = append(parts, "Warning: started before its dependencies.")
		}
	} else {
		parts = append(parts, "No direct dependencies.")
	}

	if st.start.Equal(s.globalStart) && st.start.After(depsEnd) && st.start.Equal(pool.AvailabilityOf(worker.ID)) {
		parts = append(parts, "Could start at the earliest possible date of the plan.")
	}

	return strings.Join(parts, " ")
}

func (s *Scheduler) deadlockErr(state map[string]*scheduledTask, order []string) error {
	var starved []string
	for _, id := range order {
		if !state[id].placed {
			starved = append(starved, fmt.Sprintf("%s (%s)", id, state[id].task.Name))
		}
	}
	return fmt.Errorf("%w: no schedulable task among %s", ErrDeadlock, strings.Join(starved, ", "))
}
