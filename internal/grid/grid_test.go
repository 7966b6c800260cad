package grid

import (
	"errors"
	"testing"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/plot"
)

func tomato(t *testing.T) crops.Option {
	t.Helper()
	d, err := crops.Builtin().Lookup("tomato")
	if err != nil {
		t.Fatal(err)
	}
	return crops.Some(d)
}

func TestNewGridStableOrder(t *testing.T) {
	g := New(2, 3)
	if g.Len() != 6 || g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("New(2,3) = %s", g)
	}
	for i, p := range g.Plots() {
		if p.Index() != i {
			t.Fatalf("plot %d has index %d", i, p.Index())
		}
	}
	first := g.Plots()
	second := g.Plots()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Plots order changed at %d", i)
		}
	}
}

func TestNegativeDimensionsGiveEmptyGrid(t *testing.T) {
	g := New(-1, 4)
	if g.Len() != 0 {
		t.Fatalf("Len = %d, want 0", g.Len())
	}
}

func TestAtBounds(t *testing.T) {
	g := New(1, 2)
	for _, i := range []int{-1, 2, 99} {
		if _, err := g.At(i); !errors.Is(err, ErrPlotIndex) {
			t.Errorf("At(%d) err = %v, want ErrPlotIndex", i, err)
		}
	}
	if p, err := g.At(1); err != nil || p.Index() != 1 {
		t.Fatalf("At(1) = %v, %v", p, err)
	}
}

func TestPosition(t *testing.T) {
	g := New(3, 3)
	row, col, err := g.Position(5)
	if err != nil || row != 1 || col != 2 {
		t.Fatalf("Position(5) = %d,%d,%v; want 1,2", row, col, err)
	}
	if _, _, err := g.Position(9); !errors.Is(err, ErrPlotIndex) {
		t.Fatalf("Position(9) err = %v", err)
	}
}

func TestDispatchers(t *testing.T) {
	g := New(1, 3)

	if err := g.Plant(1, tomato(t)); err != nil {
		t.Fatalf("Plant: %v", err)
	}
	if err := g.Plant(1, tomato(t)); !errors.Is(err, plot.ErrNotEmpty) {
		t.Fatalf("second Plant err = %v, want ErrNotEmpty", err)
	}
	if err := g.Plant(7, tomato(t)); !errors.Is(err, ErrPlotIndex) {
		t.Fatalf("Plant(7) err = %v, want ErrPlotIndex", err)
	}
	if err := g.Clear(1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := g.Clear(-3); !errors.Is(err, ErrPlotIndex) {
		t.Fatalf("Clear(-3) err = %v", err)
	}
	if err := g.Cycle(2, tomato(t)); err != nil {
		t.Fatalf("Cycle: %v", err)
	}

	snap := g.Snapshot()
	if snap[1].Lifecycle != plot.Empty || snap[2].Lifecycle != plot.Sprouted {
		t.Fatalf("snapshot lifecycles = %s, %s", snap[1].Lifecycle, snap[2].Lifecycle)
	}
}

func TestIrrigation(t *testing.T) {
	g := New(2, 2)
	v, err := g.SetIrrigation(3, 1.4)
	if err != nil || v != 1 {
		t.Fatalf("SetIrrigation = %v, %v", v, err)
	}
	if _, err := g.SetIrrigation(4, 0.5); !errors.Is(err, ErrPlotIndex) {
		t.Fatalf("SetIrrigation(4) err = %v", err)
	}

	if got := g.SetIrrigationAll(0.25); got != 0.25 {
		t.Fatalf("SetIrrigationAll = %v", got)
	}
	for _, s := range g.Snapshot() {
		if s.Irrigation != 0.25 {
			t.Fatalf("plot %d irrigation = %v", s.Index, s.Irrigation)
		}
	}
	if got := New(0, 0).SetIrrigationAll(-2); got != 0 {
		t.Fatalf("SetIrrigationAll on empty grid = %v", got)
	}
}

func TestFromPlotsReindexes(t *testing.T) {
	a := plot.Restore(8, plot.State{Moisture: 0.9, Health: 1, Crop: tomato(t)}, plot.Grown)
	b := plot.New(3)
	g := FromPlots(a, b)
	if g.Len() != 2 {
		t.Fatalf("Len = %d", g.Len())
	}
	p0, _ := g.At(0)
	if p0.Index() != 0 || p0.Lifecycle() != plot.Grown || p0.Moisture != 0.9 {
		t.Fatalf("plot 0 = %d %s %v", p0.Index(), p0.Lifecycle(), p0.Moisture)
	}
	if p0 == a {
		t.Fatal("FromPlots should copy plots")
	}
}

func TestGenerateUniform(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.InitialMoisture = 0.3
	g := Generate(cfg)
	if g.Len() != 9 {
		t.Fatalf("Len = %d, want 9", g.Len())
	}
	for _, s := range g.Snapshot() {
		if s.Moisture != 0.3 {
			t.Fatalf("plot %d moisture %v, want 0.3", s.Index, s.Moisture)
		}
	}
}

func TestGenerateVariationDeterministic(t *testing.T) {
	cfg := GenConfig{Rows: 4, Cols: 5, Seed: 99, InitialMoisture: 0.5, SoilVariation: 0.2}
	a := Generate(cfg).Snapshot()
	b := Generate(cfg).Snapshot()

	varied := false
	for i := range a {
		if a[i].Moisture != b[i].Moisture {
			t.Fatalf("plot %d differs between runs with the same seed", i)
		}
		if a[i].Moisture < 0.3-1e-9 || a[i].Moisture > 0.7+1e-9 {
			t.Fatalf("plot %d moisture %v outside ±variation", i, a[i].Moisture)
		}
		if a[i].Moisture != a[0].Moisture {
			varied = true
		}
	}
	if !varied {
		t.Fatal("soil variation produced a uniform field")
	}
}
