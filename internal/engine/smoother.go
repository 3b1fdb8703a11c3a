package engine

import "fmt"

// Default per-category smoothing factors. Rotation trails slowest so 4D
// orientation feels weighty; color responds fastest.
const (
	defaultRotationFactor = 0.05
	defaultMotionFactor   = 0.08
	defaultMiscFactor     = 0.10
	defaultColorFactor    = 0.15
)

// smoother applies one-pole smoothing per parameter category:
//
//	smoothed += (value - smoothed) * factor
//
// A factor of 1 disables smoothing for that category. Wrap parameters smooth
// linearly too; a target across the seam transiently sweeps the range, which
// matches how the renderer treats hue.
type smoother struct {
	factors map[Category]float64
}

func newSmoother() *smoother {
	return &smoother{factors: map[Category]float64{
		CategoryRotation: defaultRotationFactor,
		CategoryMotion:   defaultMotionFactor,
		CategoryMisc:     defaultMiscFactor,
		CategoryColor:    defaultColorFactor,
	}}
}

func (s *smoother) setFactor(cat Category, f float64) error {
	if _, ok := s.factors[cat]; !ok {
		return fmt.Errorf("smoothing: unknown category %s", cat)
	}
	if !isFinite(f) || f <= 0 || f > 1 {
		return fmt.Errorf("smoothing %s: %w", cat, ErrInvalidFactor)
	}
	s.factors[cat] = f
	return nil
}

func (s *smoother) factor(cat Category) float64 {
	return s.factors[cat]
}
