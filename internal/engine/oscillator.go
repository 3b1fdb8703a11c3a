package engine

import (
	"fmt"
	"math"
	"time"
)

// oscillator adds a slow sinusoidal swell to its targets. Phase is derived
// from the frame clock alone, so an oscillator never drifts and two engines
// ticked with the same clock agree exactly.
type oscillator struct {
	name      string
	period    time.Duration
	amplitude float64
	targets   []string
}

func (o *oscillator) contribution(now time.Time) float64 {
	period := o.period.Nanoseconds()
	phase := now.UnixNano() % period
	if phase < 0 {
		phase += period
	}
	return o.amplitude * math.Sin(2*math.Pi*float64(phase)/float64(period))
}

// oscillatorBank holds the breathing oscillators in definition order.
type oscillatorBank struct {
	byName map[string]*oscillator
	order  []string
}

func newOscillatorBank() *oscillatorBank {
	return &oscillatorBank{byName: make(map[string]*oscillator)}
}

func (b *oscillatorBank) define(name string, period time.Duration, amplitude float64, targets []string, s *store) error {
	if name == "" {
		return fmt.Errorf("define oscillator: empty name")
	}
	if period <= 0 {
		return fmt.Errorf("oscillator %s: %w", name, ErrInvalidPeriod)
	}
	if !isFinite(amplitude) {
		return fmt.Errorf("oscillator %s: amplitude: %w", name, ErrNonFinite)
	}
	for _, id := range targets {
		if _, err := s.get(id); err != nil {
			return fmt.Errorf("oscillator %s: %w", name, err)
		}
	}

	o := &oscillator{
		name:      name,
		period:    period,
		amplitude: amplitude,
		targets:   append([]string(nil), targets...),
	}
	if _, ok := b.byName[name]; !ok {
		b.order = append(b.order, name)
	}
	b.byName[name] = o
	return nil
}

func (b *oscillatorBank) tick(now time.Time, s *store) {
	for _, name := range b.order {
		o := b.byName[name]
		contrib := o.contribution(now)
		for _, id := range o.targets {
			s.params[id].reactive += contrib
		}
	}
}
