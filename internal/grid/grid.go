// Package grid owns the fixed set of farm plots for a session.
package grid

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/plot"
	"github.com/talgya/mini-farm/internal/tuning"
)

// ErrPlotIndex reports a plot index outside the grid.
var ErrPlotIndex = errors.New("plot index out of range")

// Grid holds the plots in a stable row-major order. Plots are never added or
// removed after creation; only their internal state changes.
type Grid struct {
	plots []*plot.Plot
	rows  int
	cols  int
}

// New creates a rows×cols grid of default Empty plots.
// Non-positive dimensions yield an empty grid.
func New(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g := &Grid{
		plots: make([]*plot.Plot, rows*cols),
		rows:  rows,
		cols:  cols,
	}
	for i := range g.plots {
		g.plots[i] = plot.New(i)
	}
	return g
}

// FromPlots builds a single-row grid around existing plots, re-indexed in order.
// It is meant for fixtures; the slice is copied.
func FromPlots(plots ...*plot.Plot) *Grid {
	g := &Grid{
		plots: make([]*plot.Plot, len(plots)),
		rows:  1,
		cols:  len(plots),
	}
	if len(plots) == 0 {
		g.rows = 0
	}
	for i, p := range plots {
		g.plots[i] = plot.Restore(i, p.State, p.Lifecycle())
	}
	return g
}

// Len returns the number of plots.
func (g *Grid) Len() int {
	return len(g.plots)
}

// Rows returns the row count.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the column count.
func (g *Grid) Cols() int {
	return g.cols
}

// Plots returns the plots in stable order. The slice is a copy; the plots are not.
func (g *Grid) Plots() []*plot.Plot {
	out := make([]*plot.Plot, len(g.plots))
	copy(out, g.plots)
	return out
}

// At returns the plot at index i.
func (g *Grid) At(i int) (*plot.Plot, error) {
	if i < 0 || i >= len(g.plots) {
		return nil, fmt.Errorf("%w: %d (grid has %d plots)", ErrPlotIndex, i, len(g.plots))
	}
	return g.plots[i], nil
}

// Position maps an index to its row and column. Position is presentation-only.
func (g *Grid) Position(i int) (row, col int, err error) {
	if _, err := g.At(i); err != nil {
		return 0, 0, err
	}
	return i / g.cols, i % g.cols, nil
}

// Plant forwards to the plot's state machine.
func (g *Grid) Plant(i int, crop crops.Option) error {
	p, err := g.At(i)
	if err != nil {
		return err
	}
	return p.Plant(crop)
}

// Clear forwards to the plot's state machine. Legal from any stage.
func (g *Grid) Clear(i int) error {
	p, err := g.At(i)
	if err != nil {
		return err
	}
	p.Clear()
	return nil
}

// Cycle advances the plot one stage in the manual cycle.
func (g *Grid) Cycle(i int, crop crops.Option) error {
	p, err := g.At(i)
	if err != nil {
		return err
	}
	return p.Cycle(crop)
}

// SetIrrigation clamps v to [0,1] and stores it on plot i.
func (g *Grid) SetIrrigation(i int, v float64) (float64, error) {
	p, err := g.At(i)
	if err != nil {
		return 0, err
	}
	return p.SetIrrigation(v), nil
}

// SetIrrigationAll applies one clamped level to every plot and returns it.
func (g *Grid) SetIrrigationAll(v float64) float64 {
	applied := tuning.Clamp01(v)
	for _, p := range g.plots {
		p.SetIrrigation(applied)
	}
	return applied
}

// Snapshot copies every plot's state in grid order.
func (g *Grid) Snapshot() []plot.Snapshot {
	out := make([]plot.Snapshot, len(g.plots))
	for i, p := range g.plots {
		out[i] = p.Snapshot()
	}
	return out
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(rows=%d, cols=%d, plots=%d)", g.rows, g.cols, len(g.plots))
}
