// Package plot provides the per-cell farm state and its lifecycle state machine.
package plot

import (
	"errors"
	"fmt"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/tuning"
)

var (
	// ErrNotEmpty reports a planting attempt on a plot that is not Empty.
	ErrNotEmpty = errors.New("plot is not empty")

	// ErrNoCrop reports a planting attempt without a crop.
	ErrNoCrop = errors.New("no crop selected")
)

// Lifecycle is the visible stage of a plot. It is the single source of truth
// for which growth rules apply.
type Lifecycle uint8

const (
	Empty Lifecycle = iota
	Sprouted
	Grown
	Dead
)

// String returns the lifecycle name.
func (l Lifecycle) String() string {
	switch l {
	case Empty:
		return "Empty"
	case Sprouted:
		return "Sprouted"
	case Grown:
		return "Grown"
	case Dead:
		return "Dead"
	default:
		return fmt.Sprintf("Lifecycle(%d)", uint8(l))
	}
}

// Next returns the following stage in the manual cycle
// Empty → Sprouted → Grown → Dead → Empty.
func (l Lifecycle) Next() Lifecycle {
	return (l + 1) % 4
}

// Growing reports whether growth and health rules apply in this stage.
func (l Lifecycle) Growing() bool {
	return l == Sprouted || l == Grown
}

// State is the dynamic per-plot data. All fractions are kept in [0, 1].
type State struct {
	Moisture   float64      `json:"moisture"`
	Irrigation float64      `json:"irrigation"` // Player input, persists between days
	Crop       crops.Option `json:"-"`
	AgeDays    float64      `json:"age_days"` // Growth-equivalent days since planting
	Health     float64      `json:"health"`

	// ConsecutiveBadDays is reset on plant and clear and otherwise left alone;
	// no rule reads it yet.
	ConsecutiveBadDays int `json:"consecutive_bad_days"`
}

// Plot is one cell of the farm grid. The stepper mutates the embedded State
// fields directly; lifecycle changes go through the transition methods.
type Plot struct {
	State
	index     int
	lifecycle Lifecycle
}

// New creates an Empty plot with default moisture and full health.
func New(index int) *Plot {
	return &Plot{
		State: State{
			Moisture: tuning.DefaultMoisture,
			Health:   1,
		},
		index:     index,
		lifecycle: Empty,
	}
}

// Restore builds a plot from explicit state, e.g. for fixtures and scenarios.
// Fractions are clamped; the lifecycle is taken as given and may violate the
// crop invariant until Repair is called.
func Restore(index int, st State, lc Lifecycle) *Plot {
	st.Moisture = tuning.Clamp01(st.Moisture)
	st.Irrigation = tuning.Clamp01(st.Irrigation)
	st.Health = tuning.Clamp01(st.Health)
	if lc > Dead {
		lc = Empty
	}
	return &Plot{State: st, index: index, lifecycle: lc}
}

// Index returns the plot's position in its grid.
func (p *Plot) Index() int {
	return p.index
}

// Lifecycle returns the current stage.
func (p *Plot) Lifecycle() Lifecycle {
	return p.lifecycle
}

// Plant moves an Empty plot to Sprouted with the given crop.
// Any other stage, or a missing crop, leaves the plot untouched.
func (p *Plot) Plant(crop crops.Option) error {
	if p.lifecycle != Empty {
		return fmt.Errorf("plant plot %d: %w (%s)", p.index, ErrNotEmpty, p.lifecycle)
	}
	if !crop.IsSome() {
		return fmt.Errorf("plant plot %d: %w", p.index, ErrNoCrop)
	}
	p.Crop = crop
	p.AgeDays = 0
	p.Health = 1
	p.ConsecutiveBadDays = 0
	p.lifecycle = Sprouted
	return nil
}

// Mature moves a Sprouted plot to Grown. It reports whether the transition fired.
func (p *Plot) Mature() bool {
	if p.lifecycle != Sprouted {
		return false
	}
	p.lifecycle = Grown
	return true
}

// Kill moves a Sprouted or Grown plot to Dead. Dead is left only by Clear.
// The crop, age and health are kept for inspection.
func (p *Plot) Kill() bool {
	if !p.lifecycle.Growing() {
		return false
	}
	p.lifecycle = Dead
	return true
}

// Clear returns the plot to Empty from any stage. Moisture and irrigation
// are soil properties and survive clearing.
func (p *Plot) Clear() {
	p.lifecycle = Empty
	p.Crop = crops.None()
	p.AgeDays = 0
	p.Health = 1
	p.ConsecutiveBadDays = 0
}

// Cycle advances one stage in the manual order, for debug actions and test
// harnesses. The daily stepper never calls it. Leaving Empty needs a crop.
func (p *Plot) Cycle(crop crops.Option) error {
	switch p.lifecycle {
	case Empty:
		return p.Plant(crop)
	case Sprouted:
		p.Mature()
	case Grown:
		p.Kill()
	default:
		p.Clear()
	}
	return nil
}

// SetIrrigation stores the clamped irrigation level and returns it.
func (p *Plot) SetIrrigation(v float64) float64 {
	p.Irrigation = tuning.Clamp01(v)
	return p.Irrigation
}

// Repair forces a Sprouted or Grown plot without a crop back to Empty.
// It reports whether a correction was needed.
func (p *Plot) Repair() bool {
	if p.lifecycle.Growing() && !p.Crop.IsSome() {
		p.Clear()
		return true
	}
	return false
}

// Snapshot is a read-only copy of a plot for presentation and advice.
type Snapshot struct {
	Index      int          `json:"index"`
	Lifecycle  Lifecycle    `json:"lifecycle"`
	Moisture   float64      `json:"moisture"`
	Irrigation float64      `json:"irrigation"`
	Health     float64      `json:"health"`
	AgeDays    float64      `json:"age_days"`
	Crop       crops.Option `json:"-"`
}

// Snapshot copies the current state.
func (p *Plot) Snapshot() Snapshot {
	return Snapshot{
		Index:      p.index,
		Lifecycle:  p.lifecycle,
		Moisture:   p.Moisture,
		Irrigation: p.Irrigation,
		Health:     p.Health,
		AgeDays:    p.AgeDays,
		Crop:       p.Crop,
	}
}
