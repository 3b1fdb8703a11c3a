package source

import (
	"math"
	"sync"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

// Pinch turns two-finger scale events into a signed one-axis gesture
// signal: spreading produces positive intensity, pinching in negative.
// Momentum behaves like Pointer's.
type Pinch struct {
	mu        sync.Mutex
	dampening float64
	epsilon   float64

	produced bool
	state    phase
	released bool

	pending float64
	moved   bool

	velocity float64
}

// NewPinch validates the momentum settings and returns a pinch source.
func NewPinch(dampening, epsilon float64) (*Pinch, error) {
	if err := validateMomentum(dampening, epsilon); err != nil {
		return nil, err
	}
	return &Pinch{dampening: dampening, epsilon: epsilon}, nil
}

// Scale records a change of the pinch spread since the last event.
func (p *Pinch) Scale(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending += delta
	p.moved = true
	p.released = false
}

// Release ends the gesture and lets the current velocity coast.
func (p *Pinch) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
}

// Pull advances the gesture one frame and reports its current state.
func (p *Pinch) Pull() (engine.Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.produced && !p.moved {
		return engine.Sample{}, false
	}
	p.produced = true

	if p.moved {
		p.velocity = p.pending
		p.pending = 0
		p.moved = false
		p.state = phaseActive
	} else {
		switch p.state {
		case phaseActive:
			p.velocity = 0
		case phaseReleased:
			p.velocity *= p.dampening
			if math.Abs(p.velocity) < p.epsilon {
				p.velocity = 0
				p.state = phaseIdle
			}
		}
	}

	if p.released {
		p.released = false
		if p.state == phaseActive {
			p.state = phaseReleased
		}
	}

	return engine.Sample{Intensity: p.velocity}, true
}
