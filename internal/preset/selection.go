package preset

import "sync/atomic"

// Selection tracks the live geometry choice. The terminal and remote
// surfaces share one instance; saving a variation captures its value.
type Selection struct {
	geometry atomic.Int64
}

func NewSelection() *Selection {
	return &Selection{}
}

// Geometry returns the current geometry index.
func (s *Selection) Geometry() int {
	return int(s.geometry.Load())
}

// SetGeometry stores index clamped into the valid range.
func (s *Selection) SetGeometry(index int) {
	if index < 0 {
		index = 0
	}
	if index >= GeometryCount {
		index = GeometryCount - 1
	}
	s.geometry.Store(int64(index))
}

// CycleGeometry advances by step, wrapping around the geometry list.
func (s *Selection) CycleGeometry(step int) int {
	for {
		old := s.geometry.Load()
		next := (old + int64(step)) % GeometryCount
		if next < 0 {
			next += GeometryCount
		}
		if s.geometry.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}
