package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/talgya/mini-farm/internal/engine"
	"github.com/talgya/mini-farm/internal/grid"
)

func TestRefreshMetrics(t *testing.T) {
	r, err := NewRecorder()
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	r.RefreshMetrics(4, engine.Metrics{Plots: 9, Grown: 3, Dead: 1, YieldRate: 1.0 / 3, MeanWaterUse: 0.25})
	r.RefreshMetrics(5, engine.Metrics{Plots: 9, Grown: 4})

	if got := testutil.ToFloat64(r.day); got != 5 {
		t.Errorf("day = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.daysStepped); got != 2 {
		t.Errorf("days_stepped_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.grown); got != 4 {
		t.Errorf("plots_grown = %v, want 4", got)
	}
	if got := testutil.ToFloat64(r.meanWater); got != 0 {
		t.Errorf("mean_water_use = %v, want 0", got)
	}
}

func TestDailyUpdateAndTips(t *testing.T) {
	r, err := NewRecorder()
	if err != nil {
		t.Fatal(err)
	}
	r.DailyUpdate(engine.DaySummary{Planted: 4, InBand: 3, TooDry: 1})
	if got := testutil.ToFloat64(r.moisture.WithLabelValues("in_band")); got != 0.75 {
		t.Errorf("in_band share = %v, want 0.75", got)
	}
	if got := testutil.ToFloat64(r.moisture.WithLabelValues("too_dry")); got != 0.25 {
		t.Errorf("too_dry share = %v, want 0.25", got)
	}

	r.ObserveTip("water")
	r.ObserveTip("water")
	r.ObserveTip("daily")
	if got := testutil.ToFloat64(r.tips.WithLabelValues("water")); got != 2 {
		t.Errorf("water tips = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(r.tips); n != 2 {
		t.Errorf("tip series = %d, want 2", n)
	}
}

func TestRecorderAsSimulationSink(t *testing.T) {
	r, err := NewRecorder()
	if err != nil {
		t.Fatal(err)
	}
	sim := engine.NewSimulation(grid.New(3, 3), nil, engine.DefaultEnvironment())
	sim.AddSink(r)
	sim.AddListener(r)
	if err := sim.Plant(4, "wheat"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		sim.StepDay()
	}

	if got := testutil.ToFloat64(r.day); got != 3 {
		t.Errorf("day = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.plots); got != 9 {
		t.Errorf("plots = %v, want 9", got)
	}
	if got := testutil.ToFloat64(r.planted); got != 1 {
		t.Errorf("planted = %v, want 1", got)
	}

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("registry gathered no families")
	}
}
