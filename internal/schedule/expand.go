package schedule

import (
	"fmt"

	"github.com/ivalero/montaje/internal/model"
)

// BuildItem is one product of a kit build with its per-unit quantity.
type BuildItem struct {
	Product  model.Product
	Quantity int
}

// Minutes returns the base work minutes one unit of this item needs,
// before overhead.
func (b BuildItem) Minutes() float64 {
	return b.Product.OptimalMinutes * float64(b.Quantity)
}

// BuildTasks expands an ordered kit build into scheduler tasks.
//
// Departments run in their phase order. Tasks within a department chain
// sequentially; the first mechanics task waits on the last electronics
// task, and the first assembly task waits on both phases. A product
// with sub-parts becomes one chained task per part. Durations are base
// minutes scaled by quantity, overhead and the number of units.
func BuildTasks(itemsByDept map[model.Department][]BuildItem, units int, overhead float64) []model.Task {
	var tasks []model.Task
	counter := 0
	lastInPhase := make(map[model.Department]string)

	nextID := func() string {
		id := fmt.Sprintf("T-%d", counter)
		counter++
		return id
	}
	scale := func(minutes float64, quantity int) float64 {
		return minutes * overhead * float64(units) * float64(quantity)
	}

	for _, dept := range model.DepartmentOrder {
		items := itemsByDept[dept]
		if len(items) == 0 {
			continue
		}

		lastInSeq := ""
		for _, item := range items {
			phaseDeps := phaseDependencies(dept, lastInPhase)
			if lastInSeq != "" {
				phaseDeps = append(phaseDeps, lastInSeq)
			}

			if item.Product.HasParts && len(item.Product.Parts) > 0 {
				for i, part := range item.Product.Parts {
					deps := []string{}
					if i == 0 {
						deps = phaseDeps
					} else if lastInSeq != "" {
						deps = []string{lastInSeq}
					}
					t := model.Task{
						ID:          nextID(),
						Name:        fmt.Sprintf("(%s) %s", item.Product.Code, part.Description),
						ProductCode: item.Product.Code,
						Department:  dept,
						WorkerType:  part.WorkerType,
						Minutes:     scale(part.Minutes, item.Quantity),
						DependsOn:   deps,
					}
					tasks = append(tasks, t)
					lastInSeq = t.ID
				}
			} else {
				t := model.Task{
					ID:          nextID(),
					Name:        fmt.Sprintf("(%c) %s", dept.Label()[0], item.Product.Code),
					ProductCode: item.Product.Code,
					Department:  dept,
					WorkerType:  item.Product.WorkerType,
					Minutes:     scale(item.Product.OptimalMinutes, item.Quantity),
					DependsOn:   phaseDeps,
				}
				tasks = append(tasks, t)
				lastInSeq = t.ID
			}
		}
		if lastInSeq != "" {
			lastInPhase[dept] = lastInSeq
		}
	}
	return tasks
}

func phaseDependencies(dept model.Department, lastInPhase map[model.Department]string) []string {
	var deps []string
	switch dept {
	case model.DeptMechanics:
		if id, ok := lastInPhase[model.DeptElectronics]; ok {
			deps = append(deps, id)
		}
	case model.DeptAssembly:
		if id, ok := lastInPhase[model.DeptMechanics]; ok {
			deps = append(deps, id)
		}
		if id, ok := lastInPhase[model.DeptElectronics]; ok {
			deps = append(deps, id)
		}
	}
	return deps
}
