// Package advisor is the read-only tip engine. It watches day summaries and
// irrigation changes and produces short, throttled tips for the player.
package advisor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/engine"
	"github.com/talgya/mini-farm/internal/tuning"
)

const maxRecent = 10

// Signal is the single daily assessment chosen from a summary.
type Signal uint8

const (
	NoSignal Signal = iota
	TooDry
	TooWet
	Good
	HarvestSoon
)

func (s Signal) String() string {
	switch s {
	case TooDry:
		return "too_dry"
	case TooWet:
		return "too_wet"
	case Good:
		return "good"
	case HarvestSoon:
		return "harvest_soon"
	default:
		return "none"
	}
}

// Band classifies an irrigation level against a crop's target.
type Band uint8

const (
	NoBand Band = iota
	OnTarget
	SlightLow
	SlightHigh
	FarLow
	FarHigh
	ExtremeLow
	ExtremeHigh
)

// Phase is the companion's growth look, driven by the mature share.
type Phase uint8

const (
	Leaves Phase = iota
	Bud
	Flower
)

func (p Phase) String() string {
	switch p {
	case Bud:
		return "bud"
	case Flower:
		return "flower"
	default:
		return "leaves"
	}
}

// Kind says which input produced a tip.
type Kind string

const (
	KindOnboarding Kind = "onboarding"
	KindDaily      Kind = "daily"
	KindWater      Kind = "water"
)

// Tip is one message shown to the player.
type Tip struct {
	Kind   Kind   `json:"kind"`
	Signal Signal `json:"signal,omitempty"`
	Band   Band   `json:"band,omitempty"`
	Day    uint64 `json:"day,omitempty"`
	Text   string `json:"text"`
}

// Advisor implements engine.DayListener and engine.WaterListener.
// Timers only move through Advance.
type Advisor struct {
	sink func(Tip)

	phase      Phase
	lastSignal Signal
	lastWater  float64
	hasWater   bool

	tipTimer      float64 // Seconds the current tip stays visible
	cooldown      float64 // Daily tip de-duplication window
	quickCooldown float64 // Water tip throttle

	current Tip
	recent  []Tip
}

// New creates an advisor that delivers tips to sink. A nil sink logs them.
func New(sink func(Tip)) *Advisor {
	if sink == nil {
		sink = func(t Tip) {
			slog.Info("tip", "kind", t.Kind, "day", t.Day, "text", t.Text)
		}
	}
	return &Advisor{sink: sink}
}

// Advance moves every timer forward by elapsed seconds.
func (a *Advisor) Advance(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	a.tipTimer = max(0, a.tipTimer-elapsed)
	a.cooldown = max(0, a.cooldown-elapsed)
	a.quickCooldown = max(0, a.quickCooldown-elapsed)
}

// Current returns the visible tip, if any.
func (a *Advisor) Current() (Tip, bool) {
	if a.tipTimer <= 0 {
		return Tip{}, false
	}
	return a.current, true
}

// Phase returns the companion phase from the last daily update.
func (a *Advisor) Phase() Phase {
	return a.phase
}

// Recent returns the last few tips, oldest first.
func (a *Advisor) Recent() []Tip {
	out := make([]Tip, len(a.recent))
	copy(out, a.recent)
	return out
}

// DailyUpdate picks at most one daily signal from the summary.
func (a *Advisor) DailyUpdate(d engine.DaySummary) {
	if d.Metrics.Plots == 0 {
		return
	}
	if d.Planted == 0 {
		a.show(Tip{Kind: KindOnboarding, Day: d.Day, Text: "Plant a crop to get started: pick Wheat or Tomato, then choose a plot."})
		return
	}

	a.phase = phaseFor(d.MatureFraction())

	sig := Assess(d)
	if sig == NoSignal {
		return
	}
	if sig == a.lastSignal && a.cooldown > 0 {
		return
	}
	a.lastSignal = sig
	a.cooldown = tuning.TipCooldown
	a.show(Tip{Kind: KindDaily, Signal: sig, Day: d.Day, Text: dailyText(sig)})
}

// Assess returns the highest-priority signal for a summary.
func Assess(d engine.DaySummary) Signal {
	if d.Planted == 0 {
		return NoSignal
	}
	planted := float64(d.Planted)
	switch {
	case float64(d.TooDry) > planted*tuning.TooDryShare:
		return TooDry
	case float64(d.TooWet) > planted*tuning.TooWetShare:
		return TooWet
	case d.MatureFraction() >= tuning.HarvestSoonShare:
		return HarvestSoon
	case float64(d.InBand) > planted*tuning.GoodShare:
		return Good
	}
	return NoSignal
}

// WaterLevel reacts to an irrigation change, throttled by the quick cooldown.
func (a *Advisor) WaterLevel(level float64, crop crops.Option) {
	if a.quickCooldown > 0 {
		return
	}
	big := a.hasWater && math.Abs(level-a.lastWater) >= tuning.BigWaterChange
	a.lastWater, a.hasWater = level, true

	band, text := waterAdvice(level, crop)
	// A big swing replaces advice that carries no warning of its own.
	neutral := band == OnTarget ||
		(band == NoBand && level >= tuning.WaterGenericLow && level <= tuning.WaterGenericHigh)
	if big && neutral {
		text = "Big water change. Watch plants for stress."
	}
	a.show(Tip{Kind: KindWater, Band: band, Text: text})
	a.quickCooldown = tuning.QuickTipCooldown
}

// ClassifyWater bands level against target.
func ClassifyWater(level, target float64) Band {
	delta := level - target
	ad := math.Abs(delta)
	low := delta < 0
	switch {
	case ad <= tuning.TargetBand:
		return OnTarget
	case ad <= tuning.SlightBand:
		return pick(low, SlightLow, SlightHigh)
	case ad <= tuning.FarBand:
		return pick(low, FarLow, FarHigh)
	default:
		return pick(low, ExtremeLow, ExtremeHigh)
	}
}

func pick(low bool, lo, hi Band) Band {
	if low {
		return lo
	}
	return hi
}

func waterAdvice(level float64, crop crops.Option) (Band, string) {
	switch {
	case level <= tuning.WaterExtremeLow:
		return ExtremeLow, "Water is extremely low. Seedlings may wilt."
	case level >= tuning.WaterExtremeHigh:
		return ExtremeHigh, "Water is maxed out. High risk of root rot."
	}

	def, ok := crop.Get()
	if !ok {
		switch {
		case level < tuning.WaterGenericLow:
			return NoBand, "Water is quite low. Pick a crop and adjust toward its target."
		case level > tuning.WaterGenericHigh:
			return NoBand, "Water is quite high. Pick a crop and adjust toward its target."
		default:
			return NoBand, "Pick a crop to see its target water band."
		}
	}

	target := def.TargetMoisture
	band := ClassifyWater(level, target)
	switch band {
	case OnTarget:
		return band, fmt.Sprintf("Good: near the %s target (%.2f ± %.2f).", def.DisplayName(), target, tuning.TargetBand)
	case SlightLow:
		return band, fmt.Sprintf("Slightly low: nudge water up toward %.2f.", target)
	case FarLow:
		return band, fmt.Sprintf("Too low: raise water closer to %.2f.", target)
	case ExtremeLow:
		return band, "Much too low: increase water or plants will stall."
	case SlightHigh:
		return band, fmt.Sprintf("Slightly high: lower water toward %.2f.", target)
	case FarHigh:
		return band, fmt.Sprintf("Too high: reduce water closer to %.2f.", target)
	default:
		return band, "Much too high: drain water before the roots rot."
	}
}

func phaseFor(maturePct float64) Phase {
	switch {
	case maturePct >= tuning.FlowerPhaseAt:
		return Flower
	case maturePct >= tuning.BudPhaseAt:
		return Bud
	default:
		return Leaves
	}
}

func dailyText(sig Signal) string {
	switch sig {
	case TooDry:
		return "Many plots are too dry. Raise water a bit."
	case TooWet:
		return "Many plots are too wet. Lower water slightly."
	case Good:
		return "Most plots are in the target band. Keep it steady."
	case HarvestSoon:
		return "Most crops are mature. Consider replanting to experiment."
	}
	return ""
}

func (a *Advisor) show(t Tip) {
	a.current = t
	a.tipTimer = tuning.TipSeconds
	a.recent = append(a.recent, t)
	if len(a.recent) > maxRecent {
		a.recent = a.recent[len(a.recent)-maxRecent:]
	}
	a.sink(t)
}
