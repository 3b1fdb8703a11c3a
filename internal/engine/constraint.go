package engine

import "math"

// Constraint bounds a parameter to [Min, Max]. Wrap constraints treat the
// range as circular and normalize into [Min, Max) instead of clamping, which
// suits angles and hue where 359 sits next to 0.
type Constraint struct {
	Min  float64
	Max  float64
	Wrap bool
}

// Clamp returns a hard-bounded constraint.
func Clamp(min, max float64) Constraint {
	return Constraint{Min: min, Max: max}
}

// WrapRange returns a circular constraint over [min, max).
func WrapRange(min, max float64) Constraint {
	return Constraint{Min: min, Max: max, Wrap: true}
}

// Apply maps v into the constraint's range. Non-finite inputs pass through
// unchanged so the frame loop can detect divergence itself.
func (c Constraint) Apply(v float64) float64 {
	if !isFinite(v) {
		return v
	}
	if c.Wrap {
		span := c.Max - c.Min
		v = math.Mod(v-c.Min, span)
		if v < 0 {
			v += span
		}
		return c.Min + v
	}
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}

func (c Constraint) validate() error {
	if !isFinite(c.Min) || !isFinite(c.Max) {
		return ErrNonFinite
	}
	if c.Min >= c.Max {
		return ErrInvalidConstraint
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
