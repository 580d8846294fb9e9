package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/profile"
	"github.com/ivalero/montaje/internal/store"
	"github.com/ivalero/montaje/internal/workcal"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "montaje.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	products := []*model.Product{
		{Code: "PCB-100", Description: "Control board", Department: model.DeptElectronics, WorkerType: 1, OptimalMinutes: 40},
		{Code: "ENC-10", Description: "Enclosure", Department: model.DeptMechanics, WorkerType: 1, OptimalMinutes: 30},
		{Code: "FIN-1", Description: "Final assembly", Department: model.DeptAssembly, WorkerType: 1, OptimalMinutes: 60},
	}
	for _, p := range products {
		require.NoError(t, s.AddProduct(ctx, p))
	}
	require.NoError(t, s.AddKit(ctx, &model.Kit{
		Code:        "KIT-01",
		Description: "Full device",
		Items: []model.KitItem{
			{ProductCode: "PCB-100", Quantity: 1},
			{ProductCode: "ENC-10", Quantity: 1},
			{ProductCode: "FIN-1", Quantity: 1},
		},
	}))
	return s
}

func fullProfile() *profile.Profile {
	return &profile.Profile{
		Start:       "2025-03-03",
		Electronics: &profile.Phase{Workers: profile.Workers{T1: 1}},
		Mechanics:   &profile.Phase{Workers: profile.Workers{T1: 1}},
		Assembly:    &profile.Phase{Workers: profile.Workers{T1: 1}},
	}
}

func TestBuild(t *testing.T) {
	s := seedStore(t)
	cal := workcal.New(workcal.Default2025(), 465)

	plan, err := Build(context.Background(), s, fullProfile(), cal, Options{
		KitCode: "KIT-01", Units: 1, Overhead: 1.20,
	})
	require.NoError(t, err)

	require.Len(t, plan.Tasks, 3)
	assert.Equal(t, "KIT-01", plan.KitCode)
	assert.NotEmpty(t, plan.ID)

	// Phases run in order: electronics, then mechanics, then assembly.
	assert.Equal(t, model.DeptElectronics, plan.Tasks[0].Department)
	assert.Equal(t, model.DeptMechanics, plan.Tasks[1].Department)
	assert.Equal(t, model.DeptAssembly, plan.Tasks[2].Department)
	assert.Equal(t, plan.Tasks[0].End, plan.Tasks[1].Start)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start, plan.Start)
	// 130 base minutes with 20% overhead, chained on single workers.
	assert.Equal(t, start.Add(156*time.Minute), plan.End)
	assert.Equal(t, 1.0, plan.Workdays)
}

func TestBuild_Validation(t *testing.T) {
	s := seedStore(t)
	cal := workcal.New(workcal.Default2025(), 465)
	ctx := context.Background()

	_, err := Build(ctx, s, fullProfile(), cal, Options{KitCode: "KIT-01", Units: 0, Overhead: 1.2})
	assert.Error(t, err)

	_, err = Build(ctx, s, fullProfile(), cal, Options{KitCode: "NOPE", Units: 1, Overhead: 1.2})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// A required department without workers fails validation.
	prof := fullProfile()
	prof.Assembly = nil
	_, err = Build(ctx, s, prof, cal, Options{KitCode: "KIT-01", Units: 1, Overhead: 1.2})
	assert.Error(t, err)
}

func TestBuild_WithTransfer(t *testing.T) {
	s := seedStore(t)
	cal := workcal.New(workcal.Default2025(), 465)

	prof := fullProfile()
	prof.Mechanics.Workers.T1 = 2
	prof.Assembly.Workers.T1 = 1
	prof.Transfer = profile.Transfer{Enabled: true, T1: 1}

	plan, err := Build(context.Background(), s, prof, cal, Options{
		KitCode: "KIT-01", Units: 1, Overhead: 1.20,
	})
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 3)
}

func TestEstimateDays(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	workers := map[model.Department]int{
		model.DeptElectronics: 2,
		model.DeptMechanics:   1,
		model.DeptAssembly:    1,
	}
	est, err := EstimateDays(ctx, s, "KIT-01", 10, 1.20, 465, workers)
	require.NoError(t, err)

	require.Len(t, est.Depts, 3)
	// Electronics: 40 * 1.2 * 10 = 480 minutes over 2 workers.
	assert.Equal(t, 480.0, est.Depts[0].Minutes)
	assert.Equal(t, 0.52, est.Depts[0].Days)
	assert.Greater(t, est.TotalDays, 0.0)

	// Missing headcount for a needed department fails.
	delete(workers, model.DeptAssembly)
	_, err = EstimateDays(ctx, s, "KIT-01", 10, 1.20, 465, workers)
	assert.Error(t, err)
}

func TestEstimateWorkers(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	est, err := EstimateWorkers(ctx, s, "KIT-01", 10, 1.20, 465, 3)
	require.NoError(t, err)

	require.Len(t, est.Depts, 3)
	assert.Equal(t, 3.0, est.TotalDays)
	for _, d := range est.Depts {
		assert.GreaterOrEqual(t, d.Workers, 1)
		assert.Equal(t, 1.0, d.Days)
	}

	_, err = EstimateWorkers(ctx, s, "KIT-01", 10, 1.20, 465, 0)
	assert.Error(t, err)
}
