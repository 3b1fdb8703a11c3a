package engine

import "sync/atomic"

// Sample is one measurement of an input signal. Intensity carries scalar
// signals such as a band energy or a gesture speed. Deltas, when present,
// carries per-axis motion for the frame keyed by axis name; relations
// address an axis as "<signal>.<axis>".
type Sample struct {
	Intensity float64
	Deltas    map[string]float64
}

// Source yields the most recent state of a named signal. Pull must never
// block; it returns false only while the source has produced nothing yet.
// The frame loop pulls each attached source exactly once per frame, so
// sources that decay or integrate may advance their state inside Pull.
type Source interface {
	Pull() (Sample, bool)
}

// Cell is a single-slot handoff from one producer goroutine to the frame
// loop. Push replaces whatever sample is pending; nothing is ever queued,
// so a producer outpacing the frame rate just overwrites itself and the
// frame always reads the freshest value.
type Cell struct {
	latest atomic.Pointer[Sample]
}

func NewCell() *Cell {
	return &Cell{}
}

// Push publishes s as the current sample.
func (c *Cell) Push(s Sample) {
	c.latest.Store(&s)
}

// Pull returns the current sample. The sample stays current across repeated
// pulls until the producer replaces it.
func (c *Cell) Pull() (Sample, bool) {
	p := c.latest.Load()
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}

// Take returns the current sample and clears the slot, so the next Take
// reports false until the producer pushes again. Integrating sources use
// this to consume raw events exactly once.
func (c *Cell) Take() (Sample, bool) {
	p := c.latest.Swap(nil)
	if p == nil {
		return Sample{}, false
	}
	return *p, true
}
