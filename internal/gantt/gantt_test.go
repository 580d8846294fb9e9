package gantt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/workcal"
)

func samplePlan(t *testing.T) *model.Plan {
	t.Helper()
	plan, err := model.NewPlan("KIT-01", 3)
	require.NoError(t, err)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	plan.Tasks = []model.PlannedTask{
		{
			Task: model.Task{
				ID: "T-0", Name: "(E) PCB-100",
				Department: model.DeptElectronics, WorkerType: 2, Minutes: 144,
			},
			Worker: "ELE-T2-1", Start: start, End: start.Add(144 * time.Minute),
			Workdays: 1, StartReason: "No direct dependencies.",
		},
		{
			Task: model.Task{
				ID: "T-1", Name: "(A) FIN-1",
				Department: model.DeptAssembly, WorkerType: 1, Minutes: 60,
				DependsOn: []string{"T-0"},
			},
			Worker: "ASM-T1-1", Start: start.Add(144 * time.Minute), End: start.Add(204 * time.Minute),
			Workdays: 1, StartReason: "Started when all dependencies finished (T-0).",
		},
	}
	plan.Finalize()
	return plan
}

func TestEmbeddedTemplate(t *testing.T) {
	data, err := templateFS.ReadFile("templates/gantt.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Highcharts.ganttChart")
	assert.Contains(t, string(data), "{{.ScriptURL}}")
}

func TestChart_Render(t *testing.T) {
	plan := samplePlan(t)
	cal := workcal.New(workcal.Default2025(), 465)
	bands := cal.NonWorkBands(plan.Start, plan.End)

	var buf bytes.Buffer
	c := New("https://example.com/highcharts-gantt.js")
	require.NoError(t, c.Render(&buf, plan, bands))

	html := buf.String()
	assert.Contains(t, html, "https://example.com/highcharts-gantt.js")
	assert.Contains(t, html, "Manufacturing plan for 3 units of KIT-01")
	assert.Contains(t, html, "ELE-T2-1")
	assert.Contains(t, html, "ASM-T1-1")
	assert.Contains(t, html, `"plotBands"`)
	// Worker rows are sorted, so assembly comes first.
	asmIdx := strings.Index(html, "ASM-T1-1")
	eleIdx := strings.Index(html, "ELE-T2-1")
	assert.Less(t, asmIdx, eleIdx)
}

func TestChart_RenderEmptyPlan(t *testing.T) {
	plan, err := model.NewPlan("KIT-01", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = New("x.js").Render(&buf, plan, nil)
	assert.Error(t, err)
}
