// Package telemetry mirrors simulation metrics into a Prometheus registry.
// Nothing here serves HTTP; a host may expose the registry if it wants to.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/talgya/mini-farm/internal/engine"
)

const namespace = "farmsim"

// Recorder implements engine.MetricsSink and engine.DayListener.
type Recorder struct {
	reg *prometheus.Registry

	day          prometheus.Gauge
	daysStepped  prometheus.Counter
	plots        prometheus.Gauge
	grown        prometheus.Gauge
	dead         prometheus.Gauge
	yieldRate    prometheus.Gauge
	deathRate    prometheus.Gauge
	meanWater    prometheus.Gauge
	meanMoisture prometheus.Gauge

	planted  prometheus.Gauge
	moisture *prometheus.GaugeVec // Planted share by moisture band
	tips     *prometheus.CounterVec
}

// NewRecorder registers the farm collectors on a fresh registry.
func NewRecorder() (*Recorder, error) {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	r := &Recorder{
		reg:          prometheus.NewRegistry(),
		day:          gauge("day", "Current simulated day."),
		plots:        gauge("plots", "Plots in the grid."),
		grown:        gauge("plots_grown", "Plots in the Grown stage."),
		dead:         gauge("plots_dead", "Plots in the Dead stage."),
		yieldRate:    gauge("yield_rate", "Grown plots over all plots."),
		deathRate:    gauge("death_rate", "Dead plots over all plots."),
		meanWater:    gauge("mean_water_use", "Mean irrigation level over all plots."),
		meanMoisture: gauge("mean_moisture", "Mean soil moisture over all plots."),
		planted:      gauge("plots_planted", "Plots with a crop assigned."),

		daysStepped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_stepped_total",
			Help:      "Days stepped since the recorder was created.",
		}),
		moisture: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planted_share",
			Help:      "Share of planted plots per moisture band.",
		}, []string{"band"}),
		tips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tips_total",
			Help:      "Advisor tips shown, by kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		r.day, r.daysStepped, r.plots, r.grown, r.dead,
		r.yieldRate, r.deathRate, r.meanWater, r.meanMoisture,
		r.planted, r.moisture, r.tips,
	} {
		if err := r.reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// Registry returns the registry holding the farm collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// RefreshMetrics records the post-step metrics.
func (r *Recorder) RefreshMetrics(day uint64, m engine.Metrics) {
	r.day.Set(float64(day))
	r.daysStepped.Inc()
	r.plots.Set(float64(m.Plots))
	r.grown.Set(float64(m.Grown))
	r.dead.Set(float64(m.Dead))
	r.yieldRate.Set(m.YieldRate)
	r.deathRate.Set(m.DeathRate)
	r.meanWater.Set(m.MeanWaterUse)
	r.meanMoisture.Set(m.MeanMoisture)
}

// DailyUpdate records the band shares from the day summary.
func (r *Recorder) DailyUpdate(d engine.DaySummary) {
	r.planted.Set(float64(d.Planted))
	r.moisture.WithLabelValues("in_band").Set(d.InBandFraction())
	r.moisture.WithLabelValues("too_dry").Set(d.TooDryFraction())
	r.moisture.WithLabelValues("too_wet").Set(d.TooWetFraction())
}

// ObserveTip counts a shown tip.
func (r *Recorder) ObserveTip(kind string) {
	r.tips.WithLabelValues(kind).Inc()
}
