package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/mini-farm/internal/advisor"
	"github.com/talgya/mini-farm/internal/engine"
	"github.com/talgya/mini-farm/internal/grid"
	"github.com/talgya/mini-farm/internal/plot"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("FARMSIM_TEST_KEY", "")
	assert.Equal(t, "fallback", envOrDefault("FARMSIM_TEST_KEY", "fallback"))
	t.Setenv("FARMSIM_TEST_KEY", "farm.db")
	assert.Equal(t, "farm.db", envOrDefault("FARMSIM_TEST_KEY", "fallback"))
}

func TestGlyphsAreDistinct(t *testing.T) {
	seen := map[string]plot.Lifecycle{}
	for _, l := range []plot.Lifecycle{plot.Empty, plot.Sprouted, plot.Grown, plot.Dead} {
		g := glyph(l)
		if prev, dup := seen[g]; dup {
			t.Fatalf("%s and %s share glyph %q", prev, l, g)
		}
		seen[g] = l
	}
}

func newSession() (*engine.Simulation, *engine.Clock) {
	sim := engine.NewSimulation(grid.New(2, 2), nil, engine.DefaultEnvironment())
	return sim, engine.NewClock(0.5)
}

func TestRunHeadlessStopsAtDays(t *testing.T) {
	sim, clk := newSession()
	clk.SetSpeed(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk.OnDay = stepUntil(sim, 7, cancel)

	runHeadless(ctx, sim, clk, advisor.New(func(advisor.Tip) {}), 7)

	assert.Equal(t, uint64(7), sim.Day())
	assert.Error(t, ctx.Err(), "reaching the limit should cancel the run")
}

func TestStepUntilDropsCatchUpPastLimit(t *testing.T) {
	sim, clk := newSession()
	stopped := 0
	clk.OnDay = stepUntil(sim, 3, func() { stopped++ })

	assert.Equal(t, 20, clk.Advance(10))
	assert.Equal(t, uint64(3), sim.Day())
	assert.Equal(t, 1, stopped)
}

func TestStepUntilWithoutLimit(t *testing.T) {
	sim, clk := newSession()
	clk.OnDay = stepUntil(sim, 0, func() { t.Fatal("unbounded run stopped") })

	clk.Advance(5)
	assert.Equal(t, uint64(10), sim.Day())
}

func TestRunHeadlessHonoursCancel(t *testing.T) {
	sim, clk := newSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clk.OnDay = stepUntil(sim, 5, cancel)

	runHeadless(ctx, sim, clk, advisor.New(func(advisor.Tip) {}), 5)
	assert.Zero(t, sim.Day())
}
