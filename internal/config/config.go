// Package config loads the session configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/mini-farm/internal/engine"
	"github.com/talgya/mini-farm/internal/grid"
	"github.com/talgya/mini-farm/internal/tuning"
)

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Config is one session's setup.
type Config struct {
	Grid        GridConfig         `yaml:"grid"`
	Clock       ClockConfig        `yaml:"clock"`
	Environment engine.Environment `yaml:"environment"`

	Catalog    string     `yaml:"catalog"`    // Crop catalog YAML; empty = built-in
	Journal    string     `yaml:"journal"`    // SQLite journal path; empty = disabled
	Irrigation float64    `yaml:"irrigation"` // Applied to every plot before day 1
	Plantings  []Planting `yaml:"plantings"`
}

// GridConfig sizes the field and seeds its soil.
type GridConfig struct {
	Rows            int     `yaml:"rows"`
	Cols            int     `yaml:"cols"`
	Seed            int64   `yaml:"seed"`
	InitialMoisture float64 `yaml:"initial_moisture"`
	SoilVariation   float64 `yaml:"soil_variation"`
}

// ClockConfig drives the day clock.
type ClockConfig struct {
	SecondsPerDay float64       `yaml:"seconds_per_day"`
	Speed         int           `yaml:"speed"`
	Running       bool          `yaml:"running"`
	Frame         time.Duration `yaml:"frame"`
}

// Planting puts a crop in a plot before the first day.
type Planting struct {
	Plot int    `yaml:"plot"`
	Crop string `yaml:"crop"`
}

// Default returns the classic 3×3 session.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Rows:            tuning.DefaultRows,
			Cols:            tuning.DefaultCols,
			InitialMoisture: tuning.DefaultMoisture,
		},
		Clock: ClockConfig{
			SecondsPerDay: tuning.DefaultSecondsPerDay,
			Speed:         tuning.MinSpeed,
			Running:       true,
			Frame:         16 * time.Millisecond,
		},
		Environment: engine.DefaultEnvironment(),
	}
}

// Load decodes YAML from r over Default. Missing keys keep their defaults;
// unknown keys are an error.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a config file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every range.
func (c Config) Validate() error {
	switch {
	case c.Grid.Rows < 1 || c.Grid.Cols < 1:
		return fmt.Errorf("%w: grid must be at least 1×1, got %d×%d", ErrInvalid, c.Grid.Rows, c.Grid.Cols)
	case !unit(c.Grid.InitialMoisture):
		return fmt.Errorf("%w: grid.initial_moisture %v outside [0,1]", ErrInvalid, c.Grid.InitialMoisture)
	case c.Grid.SoilVariation < 0:
		return fmt.Errorf("%w: grid.soil_variation must not be negative", ErrInvalid)
	case !(c.Clock.SecondsPerDay > 0):
		return fmt.Errorf("%w: clock.seconds_per_day must be positive", ErrInvalid)
	case c.Clock.Speed < tuning.MinSpeed:
		return fmt.Errorf("%w: clock.speed must be at least %d", ErrInvalid, tuning.MinSpeed)
	case c.Clock.Frame < 0:
		return fmt.Errorf("%w: clock.frame must not be negative", ErrInvalid)
	case !unit(c.Environment.Infiltration):
		return fmt.Errorf("%w: environment.infiltration %v outside [0,1]", ErrInvalid, c.Environment.Infiltration)
	case !unit(c.Environment.Evapotranspiration):
		return fmt.Errorf("%w: environment.evapotranspiration %v outside [0,1]", ErrInvalid, c.Environment.Evapotranspiration)
	case !unit(c.Environment.AmbientTemp):
		return fmt.Errorf("%w: environment.ambient_temp %v outside [0,1]", ErrInvalid, c.Environment.AmbientTemp)
	case !unit(c.Irrigation):
		return fmt.Errorf("%w: irrigation %v outside [0,1]", ErrInvalid, c.Irrigation)
	}

	plots := c.Grid.Rows * c.Grid.Cols
	for i, p := range c.Plantings {
		if p.Plot < 0 || p.Plot >= plots {
			return fmt.Errorf("%w: plantings[%d]: plot %d outside grid of %d", ErrInvalid, i, p.Plot, plots)
		}
		if p.Crop == "" {
			return fmt.Errorf("%w: plantings[%d]: crop is required", ErrInvalid, i)
		}
	}
	return nil
}

// GenConfig returns the grid generation parameters.
func (c Config) GenConfig() grid.GenConfig {
	return grid.GenConfig{
		Rows:            c.Grid.Rows,
		Cols:            c.Grid.Cols,
		Seed:            c.Grid.Seed,
		InitialMoisture: c.Grid.InitialMoisture,
		SoilVariation:   c.Grid.SoilVariation,
	}
}

func unit(x float64) bool {
	return x >= 0 && x <= 1
}
