// Package source adapts raw input events into engine signals. Each adapter
// accepts events from one producer goroutine at whatever rate they arrive
// and exposes the engine's Pull contract: non-blocking, latest state only,
// advanced once per frame. Gesture adapters carry momentum across release
// so a fling keeps spinning the lattice after the finger lifts.
package source

import "fmt"

// Momentum defaults shared by the gesture adapters.
const (
	DefaultDampening = 0.95
	DefaultEpsilon   = 0.001
)

// phase is the lifecycle of a gesture signal. Idle emits nothing, Active
// mirrors the live gesture, Released decays the carried velocity by the
// dampening factor each frame until it drops under epsilon.
type phase int

const (
	phaseIdle phase = iota
	phaseActive
	phaseReleased
)

func validateMomentum(dampening, epsilon float64) error {
	if !(dampening > 0 && dampening < 1) {
		return fmt.Errorf("dampening must be in (0, 1), got %v", dampening)
	}
	if !(epsilon > 0) {
		return fmt.Errorf("epsilon must be positive, got %v", epsilon)
	}
	return nil
}
