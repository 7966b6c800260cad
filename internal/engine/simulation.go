// Simulation ties the grid, crop catalog and environment together and steps days.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/grid"
	"github.com/talgya/mini-farm/internal/plot"
	"github.com/talgya/mini-farm/internal/tuning"
)

// Environment holds the per-day balance rates shared by every plot.
type Environment struct {
	Infiltration       float64 `yaml:"infiltration"`       // Fraction of irrigation that becomes moisture
	Evapotranspiration float64 `yaml:"evapotranspiration"` // Daily loss before LossFactor
	AmbientTemp        float64 `yaml:"ambient_temp"`       // Reserved; unused by the stepper
}

// DefaultEnvironment returns the reference rates.
func DefaultEnvironment() Environment {
	return Environment{
		Infiltration:       tuning.DefaultInfiltration,
		Evapotranspiration: tuning.DefaultEvapotranspiration,
		AmbientTemp:        tuning.DefaultAmbientTemp,
	}
}

// DayListener receives the summary of every stepped day.
type DayListener interface {
	DailyUpdate(DaySummary)
}

// WaterListener is implemented by day listeners that also want irrigation
// changes as they happen.
type WaterListener interface {
	WaterLevel(level float64, crop crops.Option)
}

// MetricsSink receives refreshed metrics after every stepped day.
type MetricsSink interface {
	RefreshMetrics(day uint64, m Metrics)
}

// Simulation owns one session's day stepping. All methods run on the frame
// loop's goroutine; nothing here locks.
type Simulation struct {
	Grid    *grid.Grid
	Catalog *crops.Catalog
	Env     Environment

	day       uint64
	listeners []DayListener
	sinks     []MetricsSink
}

// NewSimulation wires a simulation around an existing grid and catalog.
// A nil catalog means the built-in one.
func NewSimulation(g *grid.Grid, catalog *crops.Catalog, env Environment) *Simulation {
	if catalog == nil {
		catalog = crops.Builtin()
	}
	return &Simulation{
		Grid:    g,
		Catalog: catalog,
		Env:     env,
	}
}

// Day returns the number of days stepped since start or the last reset.
func (s *Simulation) Day() uint64 {
	return s.day
}

// ResetDays zeroes the day counter. Plot state is untouched.
func (s *Simulation) ResetDays() {
	s.day = 0
}

// AddListener registers a day listener. Listeners that also implement
// WaterListener receive irrigation changes.
func (s *Simulation) AddListener(l DayListener) {
	s.listeners = append(s.listeners, l)
}

// AddSink registers a metrics sink.
func (s *Simulation) AddSink(m MetricsSink) {
	s.sinks = append(s.sinks, m)
}

// Snapshot copies every plot's state in grid order.
func (s *Simulation) Snapshot() []plot.Snapshot {
	return s.Grid.Snapshot()
}

// Metrics computes metrics for the current grid.
func (s *Simulation) Metrics() Metrics {
	return ComputeMetrics(s.Grid.Snapshot())
}

// StepDay runs one full day over every plot, then publishes the summary and
// metrics. A day is never partially applied.
func (s *Simulation) StepDay() DaySummary {
	for _, p := range s.Grid.Plots() {
		s.stepPlot(p)
	}
	s.day++

	snaps := s.Grid.Snapshot()
	m := ComputeMetrics(snaps)
	sum := Summarize(s.day, snaps, m, s.Catalog)

	slog.Info("daily report",
		"day", s.day,
		"plots", m.Plots,
		"planted", sum.Planted,
		"grown", m.Grown,
		"dead", m.Dead,
		"in_band", sum.InBand,
		"too_dry", sum.TooDry,
		"too_wet", sum.TooWet,
		"avg_moisture", fmt.Sprintf("%.3f", m.MeanMoisture),
		"water", fmt.Sprintf("%.3f", m.MeanWaterUse),
	)

	for _, l := range s.listeners {
		l.DailyUpdate(sum)
	}
	for _, sink := range s.sinks {
		sink.RefreshMetrics(s.day, m)
	}
	return sum
}

// stepPlot applies the moisture balance and, for growing plots, the
// health and growth rules.
func (s *Simulation) stepPlot(p *plot.Plot) {
	if p.Repair() {
		slog.Warn("growing plot had no crop, reset to empty", "plot", p.Index())
	}

	add := p.Irrigation * s.Env.Infiltration
	loss := s.Env.Evapotranspiration * tuning.LossFactor
	p.Moisture = tuning.Clamp01(p.Moisture + (add - loss))

	if !p.Lifecycle().Growing() {
		return
	}
	def, ok := p.Crop.Get()
	if !ok {
		return
	}
	if !s.Catalog.Contains(def) {
		slog.Debug("crop not in catalog, skipping growth", "plot", p.Index(), "crop", def.ID)
		return
	}

	stress := math.Abs(p.Moisture - def.TargetMoisture)
	p.Health = tuning.Clamp01(p.Health - tuning.Clamp01(stress*tuning.HealthLossCoefficient))
	growth := tuning.Lerp(tuning.MinGrowthFactor, tuning.MaxGrowthFactor, 1-tuning.Clamp01(stress*tuning.StressGrowthScale))
	p.AgeDays += growth

	switch {
	case p.Health <= 0:
		if p.Kill() {
			slog.Debug("plot died", "plot", p.Index(), "crop", def.ID, "age_days", p.AgeDays)
		}
	case p.AgeDays >= def.DaysToMature && p.Lifecycle() == plot.Sprouted:
		p.Mature()
		slog.Debug("plot matured", "plot", p.Index(), "crop", def.ID, "age_days", p.AgeDays)
	}
}
