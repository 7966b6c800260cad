// Package crops provides crop species definitions and the immutable catalog
// they are loaded into before a session starts.
package crops

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidDefinition reports a crop definition that fails validation.
var ErrInvalidDefinition = errors.New("invalid crop definition")

// ID is the stable identifier of a crop species, e.g. "wheat".
type ID string

// Definition holds the static parameters of a crop species.
// Definitions are shared by pointer across every plot growing that crop
// and must never be mutated after the catalog is built.
type Definition struct {
	ID          ID     `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	TargetMoisture float64 `yaml:"target_moisture"` // 0.0–1.0
	DaysToMature   float64 `yaml:"days_to_mature"`  // Growth-equivalent days
	GrowthCurve    Curve   `yaml:"growth_curve"`    // Stress → growth multiplier
	HeatTolerance  float64 `yaml:"heat_tolerance"`  // 0.0–1.0, reserved
}

// Validate checks ranges and the growth curve.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDefinition)
	}
	if !inUnit(d.TargetMoisture) {
		return fmt.Errorf("%w: %s: target_moisture %v outside [0,1]", ErrInvalidDefinition, d.ID, d.TargetMoisture)
	}
	if !(d.DaysToMature > 0) || math.IsInf(d.DaysToMature, 0) {
		return fmt.Errorf("%w: %s: days_to_mature must be positive, got %v", ErrInvalidDefinition, d.ID, d.DaysToMature)
	}
	if !inUnit(d.HeatTolerance) {
		return fmt.Errorf("%w: %s: heat_tolerance %v outside [0,1]", ErrInvalidDefinition, d.ID, d.HeatTolerance)
	}
	if err := d.GrowthCurve.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.ID, err)
	}
	return nil
}

// DisplayName returns Name, falling back to the ID.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return string(d.ID)
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}

// CurvePoint is one knot of a growth-response curve.
type CurvePoint struct {
	Stress     float64 `yaml:"stress"`
	Multiplier float64 `yaml:"multiplier"`
}

// Curve is a piecewise-linear, monotonic mapping from moisture stress to a
// growth multiplier. An empty curve behaves as LinearCurve.
type Curve struct {
	Points []CurvePoint `yaml:"points"`
}

// LinearCurve returns the identity curve (0,0)→(1,1).
func LinearCurve() Curve {
	return Curve{Points: []CurvePoint{{0, 0}, {1, 1}}}
}

// Validate requires strictly increasing stress knots and a multiplier that is
// monotonic (all non-decreasing or all non-increasing).
func (c Curve) Validate() error {
	pts := c.Points
	if len(pts) == 0 {
		return nil
	}
	if !sort.SliceIsSorted(pts, func(i, j int) bool { return pts[i].Stress < pts[j].Stress }) {
		return errors.New("growth_curve stress knots must be increasing")
	}
	rising, falling := true, true
	for i := 1; i < len(pts); i++ {
		if pts[i].Stress == pts[i-1].Stress {
			return fmt.Errorf("growth_curve has duplicate stress knot %v", pts[i].Stress)
		}
		if pts[i].Multiplier < pts[i-1].Multiplier {
			rising = false
		}
		if pts[i].Multiplier > pts[i-1].Multiplier {
			falling = false
		}
	}
	if !rising && !falling {
		return errors.New("growth_curve must be monotonic")
	}
	for _, p := range pts {
		if math.IsNaN(p.Stress) || math.IsNaN(p.Multiplier) {
			return errors.New("growth_curve contains NaN")
		}
	}
	return nil
}

// Evaluate returns the multiplier at the given stress. Values outside the
// knot range take the nearest end value.
func (c Curve) Evaluate(stress float64) float64 {
	pts := c.Points
	if len(pts) == 0 {
		pts = LinearCurve().Points
	}
	if stress <= pts[0].Stress {
		return pts[0].Multiplier
	}
	last := pts[len(pts)-1]
	if stress >= last.Stress {
		return last.Multiplier
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Stress >= stress })
	lo, hi := pts[i-1], pts[i]
	t := (stress - lo.Stress) / (hi.Stress - lo.Stress)
	return lo.Multiplier + (hi.Multiplier-lo.Multiplier)*t
}
