// Package profile defines plan profiles: how many workers each
// department fields, the order its tasks run in, when the plan starts
// and any worker transfer between phases.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/schedule"
	"github.com/ivalero/montaje/internal/workcal"
)

// Profile errors.
var (
	ErrNoPhases     = errors.New("profile defines no phases")
	ErrNoWorkers    = errors.New("phase has no workers")
	ErrMissingStart = errors.New("profile has no start date")
)

const dateLayout = "2006-01-02"

// Phase configures one department for a plan run.
type Phase struct {
	Workers Workers  `toml:"workers"`
	Order   []string `toml:"order"` // Product codes; unlisted items follow in kit order
	Start   string   `toml:"start"` // YYYY-MM-DD, optional per phase
}

// Workers is a headcount per worker type.
type Workers struct {
	T1 int `toml:"t1"`
	T2 int `toml:"t2"`
	T3 int `toml:"t3"`
}

func (w Workers) total() int {
	return w.T1 + w.T2 + w.T3
}

func (w Workers) byType() schedule.PhaseWorkers {
	return schedule.PhaseWorkers{1: w.T1, 2: w.T2, 3: w.T3}
}

// Transfer moves idle mechanics workers to assembly once configured.
type Transfer struct {
	Enabled bool `toml:"enabled"`
	T1      int  `toml:"t1"`
	T2      int  `toml:"t2"`
	T3      int  `toml:"t3"`
}

// Profile is a full plan configuration, normally loaded from TOML.
type Profile struct {
	Start       string   `toml:"start"` // YYYY-MM-DD, fallback for phases
	Electronics *Phase   `toml:"electronics"`
	Mechanics   *Phase   `toml:"mechanics"`
	Assembly    *Phase   `toml:"assembly"`
	Transfer    Transfer `toml:"transfer"`
}

// Load reads a profile from a TOML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Phase returns the phase config for a department, or nil.
func (p *Profile) Phase(dept model.Department) *Phase {
	switch dept {
	case model.DeptElectronics:
		return p.Electronics
	case model.DeptMechanics:
		return p.Mechanics
	case model.DeptAssembly:
		return p.Assembly
	}
	return nil
}

// Validate checks the profile against the departments the build
// actually needs and the working calendar.
func (p *Profile) Validate(required map[model.Department]bool, cal *workcal.Calendar) error {
	defined := false
	for _, dept := range model.DepartmentOrder {
		phase := p.Phase(dept)
		if phase == nil {
			if required[dept] {
				return fmt.Errorf("department %s has tasks but no phase in the profile", dept)
			}
			continue
		}
		defined = true
		if required[dept] && phase.Workers.total() == 0 {
			return fmt.Errorf("%w: %s", ErrNoWorkers, dept)
		}
		if phase.Start != "" {
			start, err := time.Parse(dateLayout, phase.Start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", phase.Start, err)
			}
			if !cal.IsWorkday(start) {
				return fmt.Errorf("%s start date %s is not a workday", dept, phase.Start)
			}
		}
	}
	if !defined {
		return ErrNoPhases
	}

	start, err := p.StartDate()
	if err != nil {
		return err
	}
	if !cal.IsWorkday(start) {
		return fmt.Errorf("start date %s is not a workday", start.Format(dateLayout))
	}
	return nil
}

// StartDate returns the earliest start across the profile: phase starts
// where present, otherwise the global one.
func (p *Profile) StartDate() (time.Time, error) {
	var earliest time.Time
	add := func(s string) error {
		if s == "" {
			return nil
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", s, err)
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		return nil
	}

	if err := add(p.Start); err != nil {
		return time.Time{}, err
	}
	for _, dept := range model.DepartmentOrder {
		if phase := p.Phase(dept); phase != nil {
			if err := add(phase.Start); err != nil {
				return time.Time{}, err
			}
		}
	}
	if earliest.IsZero() {
		return time.Time{}, ErrMissingStart
	}
	return earliest, nil
}

// Headcounts returns the per-department worker counts for the resource
// pools.
func (p *Profile) Headcounts() map[model.Department]schedule.PhaseWorkers {
	out := make(map[model.Department]schedule.PhaseWorkers)
	for _, dept := range model.DepartmentOrder {
		if phase := p.Phase(dept); phase != nil {
			out[dept] = phase.Workers.byType()
		}
	}
	return out
}

// TransferRequests returns the mechanics-to-assembly transfer counts by
// worker type, empty when disabled.
func (p *Profile) TransferRequests() map[int]int {
	if !p.Transfer.Enabled {
		return nil
	}
	out := make(map[int]int)
	for workerType, count := range map[int]int{1: p.Transfer.T1, 2: p.Transfer.T2, 3: p.Transfer.T3} {
		if count > 0 {
			out[workerType] = count
		}
	}
	return out
}

// OrderItems arranges build items per department, honouring each
// phase's explicit order first and keeping kit order for the rest.
func (p *Profile) OrderItems(items []schedule.BuildItem) map[model.Department][]schedule.BuildItem {
	byDept := make(map[model.Department][]schedule.BuildItem)
	for _, item := range items {
		dept := item.Product.Department
		byDept[dept] = append(byDept[dept], item)
	}

	for dept, deptItems := range byDept {
		phase := p.Phase(dept)
		if phase == nil || len(phase.Order) == 0 {
			continue
		}
		byDept[dept] = reorder(deptItems, phase.Order)
	}
	return byDept
}

func reorder(items []schedule.BuildItem, order []string) []schedule.BuildItem {
	byCode := make(map[string]int, len(items))
	for i, item := range items {
		byCode[item.Product.Code] = i
	}

	out := make([]schedule.BuildItem, 0, len(items))
	used := make(map[int]bool, len(items))
	for _, code := range order {
		if i, ok := byCode[code]; ok && !used[i] {
			out = append(out, items[i])
			used[i] = true
		}
	}
	for i, item := range items {
		if !used[i] {
			out = append(out, item)
		}
	}
	return out
}
