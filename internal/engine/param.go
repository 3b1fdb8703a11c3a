package engine

import "fmt"

// Category groups parameters by the kind of visual quantity they drive.
// Smoothing response is assigned per category rather than per parameter.
type Category int

const (
	CategoryRotation Category = iota // 4D rotation planes, slowest response
	CategoryMotion                   // density, morphing, dimension
	CategoryColor                    // hue, intensity, saturation, fastest response
	CategoryMisc                     // everything else
)

func (c Category) String() string {
	switch c {
	case CategoryRotation:
		return "rotation"
	case CategoryMotion:
		return "motion"
	case CategoryColor:
		return "color"
	case CategoryMisc:
		return "misc"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParameterInfo describes one registered parameter for hosts that render
// controls or meters.
type ParameterInfo struct {
	ID       string
	Base     float64
	Min      float64
	Max      float64
	Wrap     bool
	Category Category
}

// parameter carries one id through the per-frame pipeline: base is the
// configured resting value, reactive accumulates this frame's signal
// contributions, value is the constrained sum, and smoothed trails value.
type parameter struct {
	id         string
	base       float64
	reactive   float64
	value      float64
	smoothed   float64
	constraint Constraint
	category   Category
	warned     bool
}

// store owns every registered parameter. order preserves registration order
// so iteration, and therefore warning output, is reproducible.
type store struct {
	params map[string]*parameter
	order  []string
}

func newStore() *store {
	return &store{params: make(map[string]*parameter)}
}

func (s *store) register(id string, base float64, c Constraint, cat Category) error {
	if id == "" {
		return fmt.Errorf("register: %w: empty id", ErrParameterUnknown)
	}
	if _, ok := s.params[id]; ok {
		return fmt.Errorf("register %s: %w", id, ErrParameterExists)
	}
	if !isFinite(base) {
		return fmt.Errorf("register %s: base: %w", id, ErrNonFinite)
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("register %s: %w", id, err)
	}
	p := &parameter{
		id:         id,
		base:       base,
		constraint: c,
		category:   cat,
	}
	p.value = c.Apply(base)
	p.smoothed = p.value
	s.params[id] = p
	s.order = append(s.order, id)
	return nil
}

func (s *store) get(id string) (*parameter, error) {
	p, ok := s.params[id]
	if !ok {
		return nil, fmt.Errorf("parameter %s: %w", id, ErrParameterUnknown)
	}
	return p, nil
}

func (s *store) setBase(id string, v float64) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	if !isFinite(v) {
		return fmt.Errorf("parameter %s: base: %w", id, ErrNonFinite)
	}
	p.base = v
	return nil
}

// snapshot returns a fresh copy of every smoothed value. Callers own the map.
func (s *store) snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for id, p := range s.params {
		out[id] = p.smoothed
	}
	return out
}
