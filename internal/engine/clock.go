// Package engine provides the day clock and the deterministic day stepper.
package engine

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/talgya/mini-farm/internal/tuning"
)

// Clock converts scaled elapsed time into discrete day ticks.
// It is driven by Advance from a single frame loop and is not safe for
// concurrent use.
type Clock struct {
	SecondsPerDay float64 // Scaled seconds per simulated day
	Speed         int     // Multiplier, kept in [MinSpeed, MaxSpeed] by SetSpeed
	Running       bool    // False freezes the accumulator and tick emission

	// OnDay is called once per emitted day, synchronously, before Advance returns.
	OnDay func()

	// OnFrame, if set, receives each frame's unscaled elapsed seconds from Run.
	OnFrame func(elapsed float64)

	acc float64
}

// NewClock creates a running clock at speed 1.
// A non-positive secondsPerDay falls back to the default day length.
func NewClock(secondsPerDay float64) *Clock {
	if secondsPerDay <= 0 {
		secondsPerDay = tuning.DefaultSecondsPerDay
	}
	return &Clock{
		SecondsPerDay: secondsPerDay,
		Speed:         tuning.MinSpeed,
		Running:       true,
	}
}

// Advance feeds elapsed real seconds into the clock and returns the number of
// days emitted. Every crossed day boundary fires OnDay separately, so a large
// elapsed value catches up one full day at a time. Non-positive and
// non-finite elapsed values are ignored.
func (c *Clock) Advance(elapsed float64) int {
	if !c.Running || elapsed <= 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || c.SecondsPerDay <= 0 {
		return 0
	}
	c.acc += elapsed * float64(max(1, c.Speed))

	days := 0
	for c.acc >= c.SecondsPerDay {
		c.acc -= c.SecondsPerDay
		days++
		if c.OnDay != nil {
			c.OnDay()
		}
	}
	return days
}

// Accumulated returns the scaled time carried toward the next day.
func (c *Clock) Accumulated() float64 {
	return c.acc
}

// SetSpeed clamps s to [MinSpeed, MaxSpeed] and returns the applied value.
func (c *Clock) SetSpeed(s int) int {
	c.Speed = min(max(s, tuning.MinSpeed), tuning.MaxSpeed)
	return c.Speed
}

// TogglePlay flips Running and returns the new state.
func (c *Clock) TogglePlay() bool {
	c.Running = !c.Running
	return c.Running
}

// Pause stops tick emission. The accumulator is kept.
func (c *Clock) Pause() {
	c.Running = false
}

// Resume restarts tick emission.
func (c *Clock) Resume() {
	c.Running = true
}

// Run drives the clock from the wall clock every frame until ctx is done.
// Days are stepped on the calling goroutine.
func (c *Clock) Run(ctx context.Context, frame time.Duration) error {
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	slog.Info("day clock started", "seconds_per_day", c.SecondsPerDay, "speed", c.Speed, "frame", frame)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("day clock stopped", "carry", c.acc)
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			c.Advance(elapsed)
			if c.OnFrame != nil {
				c.OnFrame(elapsed)
			}
		}
	}
}
