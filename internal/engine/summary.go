package engine

import (
	"math"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/plot"
	"github.com/talgya/mini-farm/internal/tuning"
)

// DaySummary is published once per stepped day. Counts cover plots with a
// crop assigned, whatever their stage; fractions use that planted count.
type DaySummary struct {
	Day     uint64 `json:"day"`
	Planted int    `json:"planted"`
	Mature  int    `json:"mature"`
	Dead    int    `json:"dead"`
	InBand  int    `json:"in_band"` // |moisture - target| <= TargetBand
	TooDry  int    `json:"too_dry"` // moisture < CriticallyDry
	TooWet  int    `json:"too_wet"` // moisture > CriticallyWet

	Metrics Metrics `json:"metrics"`
}

// InBandFraction returns InBand / Planted, or 0 with nothing planted.
func (d DaySummary) InBandFraction() float64 {
	return fraction(d.InBand, d.Planted)
}

// TooDryFraction returns TooDry / Planted, or 0 with nothing planted.
func (d DaySummary) TooDryFraction() float64 {
	return fraction(d.TooDry, d.Planted)
}

// TooWetFraction returns TooWet / Planted, or 0 with nothing planted.
func (d DaySummary) TooWetFraction() float64 {
	return fraction(d.TooWet, d.Planted)
}

// MatureFraction returns Mature / Planted, or 0 with nothing planted.
func (d DaySummary) MatureFraction() float64 {
	return fraction(d.Mature, d.Planted)
}

func fraction(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of)
}

// Summarize builds the day summary for a post-step snapshot. Plots whose crop
// is not in catalog are left out, the same as the stepper skips their growth.
func Summarize(day uint64, snaps []plot.Snapshot, m Metrics, catalog *crops.Catalog) DaySummary {
	d := DaySummary{Day: day, Metrics: m}
	for _, s := range snaps {
		def, ok := s.Crop.Get()
		if !ok || !catalog.Contains(def) {
			continue
		}
		d.Planted++
		switch s.Lifecycle {
		case plot.Grown:
			d.Mature++
		case plot.Dead:
			d.Dead++
		}
		if math.Abs(s.Moisture-def.TargetMoisture) <= tuning.TargetBand {
			d.InBand++
		}
		if s.Moisture < tuning.CriticallyDry {
			d.TooDry++
		}
		if s.Moisture > tuning.CriticallyWet {
			d.TooWet++
		}
	}
	return d
}
