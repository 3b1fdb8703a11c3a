package source

import (
	"math"
	"sync"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

// Pointer turns drag events into a two-axis gesture signal. While a drag is
// live the frame velocity is the sum of deltas received since the previous
// frame; after Release the last velocity coasts, shrinking by the dampening
// factor every frame. Intensity is the velocity magnitude, deltas are keyed
// "x" and "y".
type Pointer struct {
	mu        sync.Mutex
	dampening float64
	epsilon   float64

	produced bool
	state    phase
	released bool

	pendingX, pendingY float64
	moved              bool

	vx, vy float64
}

// NewPointer validates the momentum settings and returns a pointer source.
func NewPointer(dampening, epsilon float64) (*Pointer, error) {
	if err := validateMomentum(dampening, epsilon); err != nil {
		return nil, err
	}
	return &Pointer{dampening: dampening, epsilon: epsilon}, nil
}

// Drag records a movement of the held pointer. Deltas accumulate until the
// next frame pulls them.
func (p *Pointer) Drag(dx, dy float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingX += dx
	p.pendingY += dy
	p.moved = true
	p.released = false
}

// Release ends the gesture. The velocity of the release frame becomes the
// momentum that coasts through the following frames.
func (p *Pointer) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
}

// Pull advances the gesture one frame and reports its current state.
func (p *Pointer) Pull() (engine.Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.produced && !p.moved {
		return engine.Sample{}, false
	}
	p.produced = true

	if p.moved {
		p.vx, p.vy = p.pendingX, p.pendingY
		p.pendingX, p.pendingY = 0, 0
		p.moved = false
		p.state = phaseActive
	} else {
		switch p.state {
		case phaseActive:
			// Held still: no velocity this frame.
			p.vx, p.vy = 0, 0
		case phaseReleased:
			p.vx *= p.dampening
			p.vy *= p.dampening
			if math.Hypot(p.vx, p.vy) < p.epsilon {
				p.vx, p.vy = 0, 0
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

	return engine.Sample{
		Intensity: math.Hypot(p.vx, p.vy),
		Deltas:    map[string]float64{"x": p.vx, "y": p.vy},
	}, true
}
