// Package schedule plans manufacturing tasks onto workers respecting
// dependencies, per-department worker pools and the working calendar.
package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/workcal"
)

// Worker is one person in a department pool.
type Worker struct {
	ID         string
	Type       int
	Department model.Department
}

type busyEntry struct {
	worker        *Worker
	availableFrom time.Time
}

// WorkerPool tracks the workers of one department and type, split into
// those free now and those busy until a known time.
type WorkerPool struct {
	Department model.Department
	Type       int

	available []*Worker
	busy      map[string]busyEntry
	cal       *workcal.Calendar
}

// NewWorkerPool creates a pool with the given workers all available.
func NewWorkerPool(dept model.Department, workerType int, workers []*Worker, cal *workcal.Calendar) *WorkerPool {
	return &WorkerPool{
		Department: dept,
		Type:       workerType,
		available:  workers,
		busy:       make(map[string]busyEntry),
		cal:        cal,
	}
}

// EarliestAvailable returns when the next worker frees up. The zero
// time means a worker is free right now. ok is false when the pool has
// no workers at all.
func (p *WorkerPool) EarliestAvailable() (time.Time, bool) {
	if len(p.available) > 0 {
		return time.Time{}, true
	}
	if len(p.busy) == 0 {
		return time.Time{}, false
	}
	var earliest time.Time
	first := true
	for _, e := range p.busy {
		if first || e.availableFrom.Before(earliest) {
			earliest = e.availableFrom
			first = false
		}
	}
	return earliest, true
}

// Assign picks the soonest-free worker, starts the task no earlier than
// startTime and returns the worker with the actual start and end. ok is
// false when the pool is empty.
func (p *WorkerPool) Assign(startTime time.Time, minutes float64) (w *Worker, start, end time.Time, ok bool) {
	if len(p.available) > 0 {
		w = p.available[0]
		p.available = p.available[1:]
	} else if len(p.busy) > 0 {
		var earliest time.Time
		var earliestID string
		first := true
		for id, e := range p.busy {
			if first || e.availableFrom.Before(earliest) || (e.availableFrom.Equal(earliest) && id < earliestID) {
				earliest = e.availableFrom
				earliestID = id
				first = false
			}
		}
		w = p.busy[earliestID].worker
		delete(p.busy, earliestID)
	}
	if w == nil {
		return nil, time.Time{}, time.Time{}, false
	}

	start = startTime
	if avail := p.availabilityOf(w.ID); avail.After(start) {
		start = avail
	}
	end = p.cal.AddWorkMinutes(start, minutes)
	p.busy[w.ID] = busyEntry{worker: w, availableFrom: end}
	return w, start, end, true
}

// AvailabilityOf reports when the named worker frees up; the zero time
// means immediately.
func (p *WorkerPool) AvailabilityOf(workerID string) time.Time {
	return p.availabilityOf(workerID)
}

func (p *WorkerPool) availabilityOf(workerID string) time.Time {
	if e, ok := p.busy[workerID]; ok {
		return e.availableFrom
	}
	return time.Time{}
}

// FreeCount returns how many workers are idle right now.
func (p *WorkerPool) FreeCount() int {
	return len(p.available)
}

type poolKey struct {
	dept       model.Department
	workerType int
}

// Resources holds every worker pool, keyed by department and worker
// type.
type Resources struct {
	pools map[poolKey]*WorkerPool
}

// PhaseWorkers is the worker headcount of one department, by type.
type PhaseWorkers map[int]int

// NewResources builds pools from per-department headcounts. Worker IDs
// follow the DEPT-Tn-i pattern so plans stay readable.
func NewResources(headcounts map[model.Department]PhaseWorkers, cal *workcal.Calendar) *Resources {
	r := &Resources{pools: make(map[poolKey]*WorkerPool)}
	for dept, byType := range headcounts {
		prefix := deptPrefix(dept)
		for workerType, count := range byType {
			if count <= 0 {
				continue
			}
			workers := make([]*Worker, count)
			for i := range workers {
				workers[i] = &Worker{
					ID:         fmt.Sprintf("%s-T%d-%d", prefix, workerType, i+1),
					Type:       workerType,
					Department: dept,
				}
			}
			r.pools[poolKey{dept, workerType}] = NewWorkerPool(dept, workerType, workers, cal)
		}
	}
	return r
}

func deptPrefix(d model.Department) string {
	switch d {
	case model.DeptElectronics:
		return "ELE"
	case model.DeptMechanics:
		return "MEC"
	case model.DeptAssembly:
		return "ASM"
	}
	return string(d)
}

// Pool returns the pool for a department and worker type, or nil.
func (r *Resources) Pool(dept model.Department, workerType int) *WorkerPool {
	return r.pools[poolKey{dept, workerType}]
}

// Transfer moves up to count idle workers of the given type between
// departments and returns how many moved.
func (r *Resources) Transfer(from, to model.Department, workerType, count int) int {
	fromPool := r.Pool(from, workerType)
	toPool := r.Pool(to, workerType)
	if fromPool == nil || toPool == nil {
		return 0
	}

	moved := 0
	for moved < count && len(fromPool.available) > 0 {
		w := fromPool.available[0]
		fromPool.available = fromPool.available[1:]
		w.Department = to
		toPool.available = append(toPool.available, w)
		moved++
	}
	if moved > 0 {
		slog.Info("transferred workers between departments",
			"from", from, "to", to, "worker_type", workerType, "count", moved)
	}
	return moved
}
