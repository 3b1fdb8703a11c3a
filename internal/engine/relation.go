package engine

import (
	"fmt"
	"math"
)

// relation couples one input signal to a set of parameters. Positive targets
// move with the signal, negative targets against it. Multipliers default
// to 1; a negative target always subtracts regardless of its multiplier's
// sign.
type relation struct {
	signal   string
	positive []string
	negative []string
	mult     map[string]float64
}

func (r *relation) multiplier(id string) float64 {
	if m, ok := r.mult[id]; ok {
		return m
	}
	return 1
}

// apply accumulates this signal's contribution into each target's reactive
// value. Contributions from separate relations to the same parameter add.
func (r *relation) apply(intensity float64, s *store) {
	for _, id := range r.positive {
		s.params[id].reactive += intensity * r.multiplier(id)
	}
	for _, id := range r.negative {
		s.params[id].reactive -= intensity * math.Abs(r.multiplier(id))
	}
}

// relationTable holds relations in definition order. Target ids are checked
// when a relation is defined, never during a frame.
type relationTable struct {
	bySignal map[string]*relation
	order    []string
}

func newRelationTable() *relationTable {
	return &relationTable{bySignal: make(map[string]*relation)}
}

func (t *relationTable) define(signal string, positive, negative []string, mult map[string]float64, s *store) error {
	if signal == "" {
		return fmt.Errorf("define relation: empty signal name")
	}
	for _, id := range positive {
		if _, err := s.get(id); err != nil {
			return fmt.Errorf("relation %s: positive: %w", signal, err)
		}
	}
	for _, id := range negative {
		if _, err := s.get(id); err != nil {
			return fmt.Errorf("relation %s: negative: %w", signal, err)
		}
	}
	for id, m := range mult {
		if _, err := s.get(id); err != nil {
			return fmt.Errorf("relation %s: multiplier: %w", signal, err)
		}
		if !isFinite(m) {
			return fmt.Errorf("relation %s: multiplier %s: %w", signal, id, ErrNonFinite)
		}
	}

	r := &relation{
		signal:   signal,
		positive: append([]string(nil), positive...),
		negative: append([]string(nil), negative...),
	}
	if len(mult) > 0 {
		r.mult = make(map[string]float64, len(mult))
		for id, m := range mult {
			r.mult[id] = m
		}
	}

	// Redefining a signal replaces its targets but keeps its slot in the
	// application order.
	if _, ok := t.bySignal[signal]; !ok {
		t.order = append(t.order, signal)
	}
	t.bySignal[signal] = r
	return nil
}
