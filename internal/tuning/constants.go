// Package tuning holds every numeric constant the farm simulation runs on.
// Nothing outside this package should carry a bare magic number for growth,
// moisture, or advice thresholds.
package tuning

// Moisture balance.
const (
	// LossFactor scales the daily evapotranspiration rate into actual moisture loss.
	LossFactor = 0.6

	// DefaultInfiltration is the fraction of irrigation that becomes soil moisture per day.
	DefaultInfiltration = 0.6

	// DefaultEvapotranspiration is the fixed daily moisture loss before LossFactor.
	DefaultEvapotranspiration = 0.25

	// DefaultAmbientTemp is reserved for heat stress; no step logic reads it yet.
	DefaultAmbientTemp = 0.6

	// DefaultMoisture is the soil moisture of a freshly created plot.
	DefaultMoisture = 0.5
)

// Growth and health.
const (
	// HealthLossCoefficient converts moisture stress into daily health loss.
	HealthLossCoefficient = 0.06

	// MinGrowthFactor is the growth rate at (or beyond) maximum stress.
	MinGrowthFactor = 0.3

	// MaxGrowthFactor is the growth rate at zero stress: one day of age per day.
	MaxGrowthFactor = 1.0

	// StressGrowthScale maps stress onto the growth lerp; stress >= 0.5 is fully stressed.
	StressGrowthScale = 2.0
)

// Day summary bands.
const (
	// TargetBand is the half-width of the in-band stress window (±12%).
	TargetBand = 0.12

	// CriticallyDry is the moisture below which a plot counts as too dry.
	CriticallyDry = 0.05

	// CriticallyWet is the moisture above which a plot counts as too wet.
	CriticallyWet = 0.95
)

// Clock.
const (
	DefaultSecondsPerDay = 0.5
	MinSpeed             = 1
	MaxSpeed             = 8
)

// Grid.
const (
	DefaultRows = 3
	DefaultCols = 3
)

// Advice thresholds.
const (
	// SlightBand is a miss just outside the target band.
	SlightBand = TargetBand + 0.04

	// FarBand is a clear miss; anything beyond is extreme.
	FarBand = 0.22

	// WaterExtremeLow and WaterExtremeHigh are absolute slider edges.
	WaterExtremeLow  = 0.03
	WaterExtremeHigh = 0.97

	// WaterGenericLow and WaterGenericHigh apply when no crop is selected.
	WaterGenericLow  = 0.15
	WaterGenericHigh = 0.85

	// BigWaterChange is the slider jump that earns a warning on its own.
	BigWaterChange = 0.28

	// Share of planted plots needed to raise each daily signal.
	TooDryShare      = 0.30
	TooWetShare      = 0.20
	HarvestSoonShare = 0.70
	GoodShare        = 0.50

	// Companion phase thresholds on the mature share.
	BudPhaseAt    = 0.3
	FlowerPhaseAt = 0.7

	// Timers, in seconds of host time.
	TipSeconds       = 2.5
	TipCooldown      = 3.0
	QuickTipCooldown = 1.5
)

// Clamp01 limits x to [0, 1]. NaN clamps to 0.
func Clamp01(x float64) float64 {
	if x != x || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Lerp interpolates from a to b by t, with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}
