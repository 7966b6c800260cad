// Command farmsim runs the farm simulation headless, either as fast as it can
// for a fixed number of days or against the wall clock until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-farm/internal/advisor"
	"github.com/talgya/mini-farm/internal/config"
	"github.com/talgya/mini-farm/internal/crops"
	"github.com/talgya/mini-farm/internal/engine"
	"github.com/talgya/mini-farm/internal/grid"
	"github.com/talgya/mini-farm/internal/journal"
	"github.com/talgya/mini-farm/internal/plot"
	"github.com/talgya/mini-farm/internal/telemetry"
)

func main() {
	configPath := flag.String("config", envOrDefault("FARMSIM_CONFIG", ""), "session config YAML")
	days := flag.Uint64("days", 30, "days to simulate (0 = until interrupted, realtime only)")
	realtime := flag.Bool("realtime", false, "step days against the wall clock")
	journalPath := flag.String("journal", envOrDefault("FARMSIM_JOURNAL", ""), "SQLite journal path (overrides config)")
	logLevel := flag.String("log-level", envOrDefault("FARMSIM_LOG_LEVEL", "info"), "debug|info|warn|error")
	speed := flag.Int("speed", 0, "clock speed 1..8 (overrides config)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if !*realtime && *days == 0 {
		slog.Error("headless runs need -days > 0")
		os.Exit(2)
	}

	// ── Configuration ────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *journalPath != "" {
		cfg.Journal = *journalPath
	}

	// ── Crop catalog ─────────────────────────────────────────────────
	catalog := crops.Builtin()
	if cfg.Catalog != "" {
		var err error
		catalog, err = crops.LoadFile(cfg.Catalog)
		if err != nil {
			slog.Error("failed to load crop catalog", "error", err)
			os.Exit(1)
		}
	}
	for _, d := range catalog.All() {
		slog.Info("crop", "id", d.ID, "target_moisture", d.TargetMoisture, "days_to_mature", d.DaysToMature)
	}

	// ── Field ────────────────────────────────────────────────────────
	field := grid.Generate(cfg.GenConfig())
	sim := engine.NewSimulation(field, catalog, cfg.Environment)
	slog.Info("field generated", "grid", field.String(), "avg_moisture", fmt.Sprintf("%.3f", sim.Metrics().MeanMoisture))

	// ── Sinks and listeners ──────────────────────────────────────────
	recorder, err := telemetry.NewRecorder()
	if err != nil {
		slog.Error("failed to create telemetry recorder", "error", err)
		os.Exit(1)
	}
	sim.AddSink(recorder)
	sim.AddListener(recorder)

	var jrnl *journal.Journal
	if cfg.Journal != "" {
		jrnl, err = journal.Open(cfg.Journal, field.Rows(), field.Cols())
		if err != nil {
			slog.Error("failed to open journal", "error", err)
			os.Exit(1)
		}
		defer jrnl.Close()
		sim.AddListener(jrnl)
	}

	adv := advisor.New(func(t advisor.Tip) {
		slog.Info("tip", "kind", t.Kind, "day", t.Day, "text", t.Text)
		recorder.ObserveTip(string(t.Kind))
		if jrnl != nil {
			if err := jrnl.RecordTip(sim.Day(), string(t.Kind), t.Text); err != nil {
				slog.Error("journal tip failed", "error", err)
			}
		}
	})
	sim.AddListener(adv)

	// ── Opening moves ────────────────────────────────────────────────
	sim.SetIrrigationAll(cfg.Irrigation)
	for _, p := range cfg.Plantings {
		if err := sim.Plant(p.Plot, p.Crop); err != nil {
			slog.Warn("planting skipped", "plot", p.Plot, "crop", p.Crop, "error", err)
		}
	}

	// ── Clock ────────────────────────────────────────────────────────
	clk := engine.NewClock(cfg.Clock.SecondsPerDay)
	clk.Running = cfg.Clock.Running
	clk.SetSpeed(cfg.Clock.Speed)
	if *speed > 0 {
		clk.SetSpeed(*speed)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	started := time.Now()
	clk.OnDay = stepUntil(sim, *days, cancel)

	if *realtime {
		clk.OnFrame = adv.Advance
		if !clk.Running {
			slog.Warn("clock starts paused; no days will run")
		}
		if err := clk.Run(ctx, cfg.Clock.Frame); err != nil {
			slog.Error("clock stopped", "error", err)
		}
	} else {
		runHeadless(ctx, sim, clk, adv, *days)
	}

	report(sim, started)
	if jrnl != nil {
		slog.Info("journal run recorded", "run", jrnl.RunID(), "path", cfg.Journal)
	}
}

// stepUntil returns a clock OnDay hook that steps sim until it reaches days,
// then calls stop. Days past the limit are dropped, even mid catch-up.
// A zero limit steps forever.
func stepUntil(sim *engine.Simulation, days uint64, stop func()) func() {
	return func() {
		if days > 0 && sim.Day() >= days {
			return
		}
		sim.StepDay()
		if days > 0 && sim.Day() >= days {
			stop()
		}
	}
}

// runHeadless feeds the clock one day of scaled time per iteration until sim
// reaches days or ctx is done. The speed multiplier only matters against the
// wall clock.
func runHeadless(ctx context.Context, sim *engine.Simulation, clk *engine.Clock, adv *advisor.Advisor, days uint64) {
	clk.Running = true
	clk.Speed = 1
	for sim.Day() < days && ctx.Err() == nil {
		clk.Advance(clk.SecondsPerDay)
		adv.Advance(clk.SecondsPerDay)
	}
}

// report logs the final field state.
func report(sim *engine.Simulation, started time.Time) {
	m := sim.Metrics()
	slog.Info("final report",
		"day", humanize.Ordinal(int(sim.Day())),
		"plots", humanize.Comma(int64(m.Plots)),
		"grown", m.Grown,
		"dead", m.Dead,
		"yield_rate", fmt.Sprintf("%.1f%%", m.YieldRate*100),
		"death_rate", fmt.Sprintf("%.1f%%", m.DeathRate*100),
		"avg_moisture", fmt.Sprintf("%.3f", m.MeanMoisture),
		"water", fmt.Sprintf("%.3f", m.MeanWaterUse),
		"elapsed", humanize.RelTime(started, time.Now(), "", ""),
	)

	g := sim.Grid
	for r := 0; r < g.Rows(); r++ {
		var b strings.Builder
		for c := 0; c < g.Cols(); c++ {
			p, err := g.At(r*g.Cols() + c)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "%s(%.2f) ", glyph(p.Lifecycle()), p.Moisture)
		}
		slog.Info("row", "n", r, "plots", strings.TrimSpace(b.String()))
	}
}

func glyph(l plot.Lifecycle) string {
	switch l {
	case plot.Sprouted:
		return "s"
	case plot.Grown:
		return "G"
	case plot.Dead:
		return "x"
	default:
		return "."
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
