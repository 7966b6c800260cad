package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/mini-farm/internal/crops"
)

// Plant looks up a crop by ID or name and plants it on plot i.
// Unknown crops, bad indices and non-Empty plots are reported and leave the
// grid untouched.
func (s *Simulation) Plant(i int, cropID string) error {
	def, err := s.Catalog.Lookup(cropID)
	if err != nil {
		return fmt.Errorf("plant plot %d: %w", i, err)
	}
	return s.PlantDefinition(i, def)
}

// PlantDefinition plants an already resolved definition on plot i. The
// definition must come from the simulation's own catalog.
func (s *Simulation) PlantDefinition(i int, def *crops.Definition) error {
	if def == nil {
		return fmt.Errorf("plant plot %d: %w: no definition", i, crops.ErrUnknownCrop)
	}
	if !s.Catalog.Contains(def) {
		return fmt.Errorf("plant plot %d: %w %q", i, crops.ErrUnknownCrop, def.ID)
	}
	if err := s.Grid.Plant(i, crops.Some(def)); err != nil {
		return err
	}
	slog.Debug("planted", "plot", i, "crop", def.ID, "day", s.day)
	return nil
}

// Clear returns plot i to Empty.
func (s *Simulation) Clear(i int) error {
	if err := s.Grid.Clear(i); err != nil {
		return err
	}
	slog.Debug("cleared", "plot", i, "day", s.day)
	return nil
}

// Cycle advances plot i one stage in the manual cycle. cropID is only
// consulted when leaving Empty and may be empty otherwise.
func (s *Simulation) Cycle(i int, cropID string) error {
	crop := crops.None()
	if cropID != "" {
		def, err := s.Catalog.Lookup(cropID)
		if err != nil {
			return fmt.Errorf("cycle plot %d: %w", i, err)
		}
		crop = crops.Some(def)
	}
	return s.Grid.Cycle(i, crop)
}

// SetIrrigation sets plot i's irrigation and notifies water listeners with the
// plot's crop.
func (s *Simulation) SetIrrigation(i int, v float64) (float64, error) {
	applied, err := s.Grid.SetIrrigation(i, v)
	if err != nil {
		return 0, err
	}
	p, _ := s.Grid.At(i)
	s.notifyWater(applied, p.Crop)
	return applied, nil
}

// SetIrrigationAll applies one level to every plot, like the field-wide water
// slider. Listeners get a single sample carrying the first planted crop.
func (s *Simulation) SetIrrigationAll(v float64) float64 {
	applied := s.Grid.SetIrrigationAll(v)

	crop := crops.None()
	for _, p := range s.Grid.Plots() {
		if p.Crop.IsSome() {
			crop = p.Crop
			break
		}
	}
	s.notifyWater(applied, crop)
	return applied
}

func (s *Simulation) notifyWater(level float64, crop crops.Option) {
	for _, l := range s.listeners {
		if w, ok := l.(WaterListener); ok {
			w.WaterLevel(level, crop)
		}
	}
}
