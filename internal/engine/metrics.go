package engine

import (
	"github.com/talgya/mini-farm/internal/plot"
)

// Metrics are aggregate statistics derived from a grid snapshot.
type Metrics struct {
	YieldRate    float64 `json:"yield_rate"`     // Grown / plots
	DeathRate    float64 `json:"death_rate"`     // Dead / plots
	MeanWaterUse float64 `json:"mean_water_use"` // Mean irrigation over all plots
	MeanMoisture float64 `json:"mean_moisture"`

	Plots int `json:"plots"`
	Grown int `json:"grown"`
	Dead  int `json:"dead"`
}

// ComputeMetrics derives Metrics from a snapshot. An empty snapshot reports
// every rate as 0.
func ComputeMetrics(snaps []plot.Snapshot) Metrics {
	m := Metrics{Plots: len(snaps)}
	if m.Plots == 0 {
		return m
	}

	var water, moisture float64
	for _, s := range snaps {
		switch s.Lifecycle {
		case plot.Grown:
			m.Grown++
		case plot.Dead:
			m.Dead++
		}
		water += s.Irrigation
		moisture += s.Moisture
	}

	n := float64(m.Plots)
	m.YieldRate = float64(m.Grown) / n
	m.DeathRate = float64(m.Dead) / n
	m.MeanWaterUse = water / n
	m.MeanMoisture = moisture / n
	return m
}
