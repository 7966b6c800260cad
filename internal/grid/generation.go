// Grid generation with optional simplex-noise soil variation.
package grid

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/mini-farm/internal/tuning"
)

// GenConfig holds grid generation parameters.
type GenConfig struct {
	Rows            int     // Plot rows
	Cols            int     // Plot columns
	Seed            int64   // Noise seed (0 = random)
	InitialMoisture float64 // Base soil moisture (0.0–1.0)
	SoilVariation   float64 // Max ± moisture deviation from noise (0 = uniform)
}

// DefaultGenConfig returns the classic 3×3 field with uniform soil.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Rows:            tuning.DefaultRows,
		Cols:            tuning.DefaultCols,
		Seed:            0,
		InitialMoisture: tuning.DefaultMoisture,
		SoilVariation:   0,
	}
}

// noiseScale spreads plots across the noise field; neighbours stay correlated.
const noiseScale = 0.35

// Generate creates a grid whose starting moisture follows cfg.
// With zero variation every plot starts at InitialMoisture and the seed is unused.
func Generate(cfg GenConfig) *Grid {
	g := New(cfg.Rows, cfg.Cols)
	base := tuning.Clamp01(cfg.InitialMoisture)

	if cfg.SoilVariation <= 0 {
		for _, p := range g.plots {
			p.Moisture = base
		}
		return g
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	soil := opensimplex.NewNormalized(seed)

	for i, p := range g.plots {
		row, col := i/g.cols, i%g.cols
		n := octaveNoise(soil, float64(col), float64(row), 2, noiseScale, 0.5)
		// Map [0,1] noise to [-1,1] deviation.
		p.Moisture = tuning.Clamp01(base + (n*2-1)*cfg.SoilVariation)
	}
	return g
}

// octaveNoise sums octaves of normalized noise and renormalizes to [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amp := 1.0
	maxAmp := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*freq, y*freq) * amp
		maxAmp += amp
		amp *= persistence
		freq *= 2
	}
	return total / maxAmp
}
