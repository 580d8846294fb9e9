// Package gantt renders a plan as a standalone HTML Gantt chart built
// on Highcharts.
package gantt

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/workcal"
)

//go:embed templates/gantt.html
var templateFS embed.FS

// Department colors, matching the chart legend.
var deptColors = map[model.Department]string{
	model.DeptElectronics: "#7cb5ec",
	model.DeptMechanics:   "#f45b5b",
	model.DeptAssembly:    "#90ed7d",
}

// Chart renders plans to HTML. ScriptURL points at the Highcharts
// Gantt script, either a CDN or a local copy.
type Chart struct {
	ScriptURL string
}

// New returns a chart renderer using the given script source.
func New(scriptURL string) *Chart {
	return &Chart{ScriptURL: scriptURL}
}

type point struct {
	X      int64  `json:"x"`
	X2     int64  `json:"x2"`
	Y      int    `json:"y"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Custom custom `json:"custom"`
}

type custom struct {
	Department  string  `json:"department"`
	Worker      string  `json:"worker"`
	WorkerType  int     `json:"workerType"`
	Minutes     float64 `json:"minutes"`
	Workdays    float64 `json:"workdays"`
	StartReason string  `json:"startReason"`
}

type plotBand struct {
	From  int64          `json:"from"`
	To    int64          `json:"to"`
	Color string         `json:"color"`
	Label map[string]any `json:"label"`
}

type chartData struct {
	Title      string     `json:"title"`
	Categories []string   `json:"categories"`
	Points     []point    `json:"points"`
	PlotBands  []plotBand `json:"plotBands"`
}

type templateData struct {
	Title     string
	ScriptURL string
	Data      template.JS
}

// Render writes the chart HTML for a plan. Bands mark non-working days
// in the plan's date range.
func (c *Chart) Render(w io.Writer, plan *model.Plan, bands []workcal.Band) error {
	if len(plan.Tasks) == 0 {
		return fmt.Errorf("plan %s has no tasks", plan.ID)
	}

	// One chart row per worker, sorted for a stable layout.
	workerSet := make(map[string]bool)
	for _, t := range plan.Tasks {
		workerSet[t.Worker] = true
	}
	categories := make([]string, 0, len(workerSet))
	for worker := range workerSet {
		categories = append(categories, worker)
	}
	sort.Strings(categories)
	rowOf := make(map[string]int, len(categories))
	for i, worker := range categories {
		rowOf[worker] = i
	}

	points := make([]point, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		points = append(points, point{
			X:     t.Start.UnixMilli(),
			X2:    t.End.UnixMilli(),
			Y:     rowOf[t.Worker],
			Name:  t.Name,
			Color: deptColors[t.Department],
			Custom: custom{
				Department:  t.Department.Label(),
				Worker:      t.Worker,
				WorkerType:  t.WorkerType,
				Minutes:     t.Minutes,
				Workdays:    t.Workdays,
				StartReason: t.StartReason,
			},
		})
	}

	title := fmt.Sprintf("Manufacturing plan for %d units of %s", plan.Units, plan.KitCode)
	data := chartData{
		Title:      title,
		Categories: categories,
		Points:     points,
		PlotBands:  toPlotBands(bands),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode chart data: %w", err)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/gantt.html")
	if err != nil {
		return fmt.Errorf("parse chart template: %w", err)
	}
	return tmpl.Execute(w, templateData{
		Title:     title,
		ScriptURL: c.ScriptURL,
		Data:      template.JS(payload),
	})
}

func toPlotBands(bands []workcal.Band) []plotBand {
	out := make([]plotBand, 0, len(bands))
	for _, b := range bands {
		out = append(out, plotBand{
			From:  b.FromMS,
			To:    b.ToMS,
			Color: "rgba(200, 200, 200, 0.2)",
			Label: map[string]any{
				"text":  "Non-working",
				"style": map[string]string{"color": "#606060"},
			},
		})
	}
	return out
}
