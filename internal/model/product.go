// Package model defines the core data structures for montaje.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Department identifies a production phase. Phases run in a fixed order:
// electronics feeds mechanics, and both feed final assembly.
type Department string

const (
	DeptElectronics Department = "electronics"
	DeptMechanics   Department = "mechanics"
	DeptAssembly    Department = "assembly"
)

// DepartmentOrder is the canonical phase sequence.
var DepartmentOrder = []Department{DeptElectronics, DeptMechanics, DeptAssembly}

// DepartmentLabels maps departments to display names.
var DepartmentLabels = map[Department]string{
	DeptElectronics: "Electronics",
	DeptMechanics:   "Mechanics",
	DeptAssembly:    "Assembly",
}

// Worker type bounds. Type 1 is the most general operator, type 3 the most specialized.
const (
	WorkerTypeMin = 1
	WorkerTypeMax = 3
)

// Validation errors.
var (
	ErrEmptyCode         = errors.New("code cannot be empty")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrInvalidDepartment = errors.New("department must be electronics, mechanics, or assembly")
	ErrInvalidWorkerType = errors.New("worker type must be 1, 2, or 3")
	ErrInvalidMinutes    = errors.New("minutes must be greater than 0")
	ErrNoParts           = errors.New("a product marked as composite must have at least one part")
)

// Product is a single catalog entry: either a leaf product with its own
// optimal time, or a composite whose time and worker type are derived
// from its parts.
type Product struct {
	Code           string     `json:"code" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Department     Department `json:"department" validate:"required"`
	WorkerType     int        `json:"worker_type" validate:"min=1,max=3"`
	Location       string     `json:"location,omitempty"`
	HasParts       bool       `json:"has_parts"`
	OptimalMinutes float64    `json:"optimal_minutes" validate:"gt=0"`

	// Parts is populated only for composite products.
	Parts []SubPart `json:"parts,omitempty"`
}

// SubPart is one step of a composite product.
type SubPart struct {
	Description string  `json:"description" validate:"required"`
	Minutes     float64 `json:"minutes" validate:"gt=0"`
	WorkerType  int     `json:"worker_type" validate:"min=1,max=3"`
}

var validate = validator.New()

// ParseDepartment parses a department name. Spanish labels are accepted
// as aliases so existing catalogs import cleanly.
func ParseDepartment(s string) (Department, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "electronics", "electronica", "electrónica":
		return DeptElectronics, nil
	case "mechanics", "mecanica", "mecánica":
		return DeptMechanics, nil
	case "assembly", "montaje":
		return DeptAssembly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDepartment, s)
	}
}

// Label returns the display name for the department.
func (d Department) Label() string {
	if l, ok := DepartmentLabels[d]; ok {
		return l
	}
	return string(d)
}

// PhaseIndex returns the position of the department in the phase order,
// or -1 for unknown departments.
func (d Department) PhaseIndex() int {
	for i, dept := range DepartmentOrder {
		if dept == d {
			return i
		}
	}
	return -1
}

// Normalize derives the composite fields from the parts: the optimal time
// is the sum of part minutes and the worker type is the least specialized
// (minimum) across parts.
func (p *Product) Normalize() {
	if !p.HasParts || len(p.Parts) == 0 {
		return
	}
	total := 0.0
	minType := WorkerTypeMax
	for _, part := range p.Parts {
		total += part.Minutes
		if part.WorkerType < minType {
			minType = part.WorkerType
		}
	}
	p.OptimalMinutes = total
	p.WorkerType = minType
}

// Validate checks that the product is internally consistent. Composite
// products must have parts; Normalize is expected to have run first.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrEmptyCode
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDescription
	}
	if p.Department.PhaseIndex() < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidDepartment, p.Department)
	}
	if p.HasParts && len(p.Parts) == 0 {
		return ErrNoParts
	}
	for i := range p.Parts {
		if err := validate.Struct(&p.Parts[i]); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	if err := validate.Struct(p); err != nil {
		return err
	}
	return nil
}

// PartMinutes returns the sum of part minutes. Zero for leaf products.
func (p *Product) PartMinutes() float64 {
	total := 0.0
	for _, part := range p.Parts {
		total += part.Minutes
	}
	return total
}
