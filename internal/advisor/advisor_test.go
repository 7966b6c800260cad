package advisor

import (
	"strings"
	"testing"

	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/engine"
)

func collect() (*Advisor, *[]Tip) {
	var tips []Tip
	a := New(func(t Tip) { tips = append(tips, t) })
	return a, &tips
}

func summary(planted, mature, inBand, dry, wet int) engine.DaySummary {
	return engine.DaySummary{
		Day:     1,
		Planted: planted,
		Mature:  mature,
		InBand:  inBand,
		TooDry:  dry,
		TooWet:  wet,
		Metrics: engine.Metrics{Plots: 9},
	}
}

func tomato(t *testing.T) crops.Option {
	t.Helper()
	d, err := crops.Builtin().Lookup("tomato")
	if err != nil {
		t.Fatal(err)
	}
	return crops.Some(d)
}

func TestAssessPriority(t *testing.T) {
	tests := []struct {
		name string
		sum  engine.DaySummary
		want Signal
	}{
		{"dry beats everything", summary(10, 9, 9, 4, 3), TooDry},
		{"dry needs more than 30%", summary(10, 0, 0, 3, 0), NoSignal},
		{"wet", summary(10, 9, 9, 0, 3), TooWet},
		{"harvest soon at 70%", summary(10, 7, 9, 0, 0), HarvestSoon},
		{"good needs more than half", summary(10, 0, 6, 0, 0), Good},
		{"half in band is not good", summary(10, 0, 5, 0, 0), NoSignal},
		{"nothing planted", summary(0, 0, 0, 0, 0), NoSignal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assess(tt.sum); got != tt.want {
				t.Fatalf("Assess = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOnboardingWhenNothingPlanted(t *testing.T) {
	a, tips := collect()
	a.DailyUpdate(summary(0, 0, 0, 0, 0))
	if len(*tips) != 1 || (*tips)[0].Kind != KindOnboarding {
		t.Fatalf("tips = %+v", *tips)
	}
	if _, ok := a.Current(); !ok {
		t.Fatal("onboarding tip not visible")
	}
}

func TestNoTipsForEmptyGrid(t *testing.T) {
	a, tips := collect()
	a.DailyUpdate(engine.DaySummary{})
	if len(*tips) != 0 {
		t.Fatalf("tips = %+v", *tips)
	}
}

func TestDailySignalCooldown(t *testing.T) {
	a, tips := collect()
	dry := summary(4, 0, 0, 2, 0)

	a.DailyUpdate(dry)
	a.DailyUpdate(dry)
	if len(*tips) != 1 {
		t.Fatalf("repeated signal inside cooldown produced %d tips", len(*tips))
	}

	// A different signal is shown right away.
	a.DailyUpdate(summary(4, 0, 0, 0, 1))
	if len(*tips) != 2 || (*tips)[1].Signal != TooWet {
		t.Fatalf("tips = %+v", *tips)
	}

	a.DailyUpdate(dry)
	if len(*tips) != 3 {
		t.Fatalf("switching back should show dry again, got %d tips", len(*tips))
	}
	a.DailyUpdate(dry)
	if len(*tips) != 3 {
		t.Fatal("dry repeated inside cooldown")
	}
	a.Advance(3.0)
	a.DailyUpdate(dry)
	if len(*tips) != 4 {
		t.Fatal("dry not repeated after cooldown")
	}
}

func TestPhase(t *testing.T) {
	a, _ := collect()
	for _, tc := range []struct {
		mature int
		want   Phase
	}{
		{0, Leaves}, {2, Leaves}, {3, Bud}, {6, Bud}, {7, Flower}, {10, Flower},
	} {
		a.DailyUpdate(summary(10, tc.mature, 0, 0, 0))
		if a.Phase() != tc.want {
			t.Errorf("mature %d/10: phase %s, want %s", tc.mature, a.Phase(), tc.want)
		}
	}
}

func TestTipExpires(t *testing.T) {
	a, _ := collect()
	a.WaterLevel(0.5, crops.None())
	a.Advance(2.4)
	if _, ok := a.Current(); !ok {
		t.Fatal("tip hidden too early")
	}
	a.Advance(0.2)
	if _, ok := a.Current(); ok {
		t.Fatal("tip still visible after 2.5s")
	}
}

func TestClassifyWater(t *testing.T) {
	tests := []struct {
		level float64
		want  Band
	}{
		{0.55, OnTarget},
		{0.45, OnTarget},
		{0.40, SlightLow},
		{0.70, SlightHigh},
		{0.35, FarLow},
		{0.75, FarHigh},
		{0.20, ExtremeLow},
		{0.90, ExtremeHigh},
	}
	for _, tt := range tests {
		if got := ClassifyWater(tt.level, 0.55); got != tt.want {
			t.Errorf("ClassifyWater(%v, 0.55) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestWaterLevelAdvice(t *testing.T) {
	a, tips := collect()

	a.WaterLevel(0.02, tomato(t))
	if (*tips)[0].Band != ExtremeLow || !strings.Contains((*tips)[0].Text, "extremely low") {
		t.Fatalf("edge tip = %+v", (*tips)[0])
	}

	// Throttled.
	a.WaterLevel(0.5, tomato(t))
	if len(*tips) != 1 {
		t.Fatalf("quick cooldown ignored: %d tips", len(*tips))
	}

	a.Advance(1.5)
	a.WaterLevel(0.5, tomato(t))
	last := (*tips)[len(*tips)-1]
	if last.Band != OnTarget {
		t.Fatalf("band = %d, want OnTarget", last.Band)
	}

	a.Advance(1.5)
	a.WaterLevel(0.9, crops.None())
	last = (*tips)[len(*tips)-1]
	if !strings.Contains(last.Text, "quite high") {
		t.Fatalf("generic high tip = %q", last.Text)
	}
}

func TestBigChangeReplacesNeutralAdvice(t *testing.T) {
	a, tips := collect()
	a.WaterLevel(0.2, tomato(t))
	a.Advance(1.5)
	a.WaterLevel(0.55, tomato(t))

	last := (*tips)[len(*tips)-1]
	if last.Band != OnTarget || !strings.Contains(last.Text, "Big water change") {
		t.Fatalf("tip = %+v", last)
	}

	// A warning band keeps its own text.
	a.Advance(1.5)
	a.WaterLevel(0.9, tomato(t))
	last = (*tips)[len(*tips)-1]
	if last.Band != ExtremeHigh || strings.Contains(last.Text, "Big water change") {
		t.Fatalf("tip = %+v", last)
	}
}

func TestRecentIsBounded(t *testing.T) {
	a, _ := collect()
	for i := 0; i < 25; i++ {
		a.WaterLevel(0.5, crops.None())
		a.Advance(2)
	}
	if n := len(a.Recent()); n != maxRecent {
		t.Fatalf("Recent len = %d, want %d", n, maxRecent)
	}
}

func TestAdvisorAsListener(t *testing.T) {
	var _ engine.DayListener = (*Advisor)(nil)
	var _ engine.WaterListener = (*Advisor)(nil)
}
