package engine

import (
	"strings"
	"time"
)

// SnapshotFunc receives the finished snapshot of each frame produced by the
// internal scheduler. The map is the consumer's to keep.
type SnapshotFunc func(now time.Time, values map[string]float64)

// Tick runs one frame at the given instant and returns the resulting
// snapshot. Hosts with their own frame callback drive this directly; Start
// drives it from an internal ticker for everyone else. Tick never fails:
// anomalies are contained per parameter and warned once.
func (e *Engine) Tick(now time.Time) map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame(now)
	return e.store.snapshot()
}

// frame is the per-frame pipeline. Caller holds e.mu.
func (e *Engine) frame(now time.Time) {
	// Reset the per-frame accumulators.
	for _, id := range e.store.order {
		e.store.params[id].reactive = 0
	}

	// Pull the freshest sample from every attached source.
	pulled := make(map[string]Sample, len(e.sourceOrder))
	for _, name := range e.sourceOrder {
		if s, ok := e.sources[name].Pull(); ok {
			pulled[name] = e.sanitize(name, s)
		}
	}

	// Route samples through the relationship table in definition order.
	for _, signal := range e.relations.order {
		rel := e.relations.bySignal[signal]

		name, axis := signal, ""
		if _, ok := e.sources[name]; !ok {
			if head, tail, found := strings.Cut(signal, "."); found {
				name, axis = head, tail
			}
		}
		if _, ok := e.sources[name]; !ok {
			if !e.missingWarned[signal] {
				e.missingWarned[signal] = true
				e.log.Printf("signal %s has no source attached", signal)
			}
			continue
		}
		sample, ok := pulled[name]
		if !ok {
			// Attached but nothing produced yet.
			continue
		}

		intensity := sample.Intensity
		if axis != "" {
			intensity = sample.Deltas[axis]
		}
		rel.apply(intensity, e.store)
	}

	// Breathing oscillators ride on the same accumulators.
	if e.breathing {
		e.bank.tick(now, e.store)
	}

	// Combine, constrain, smooth, constrain again.
	for _, id := range e.store.order {
		p := e.store.params[id]
		p.value = p.constraint.Apply(p.base + p.reactive)
		if !isFinite(p.value) {
			e.resetParameter(p)
			continue
		}
		p.smoothed += (p.value - p.smoothed) * e.smoother.factor(p.category)
		p.smoothed = p.constraint.Apply(p.smoothed)
		if !isFinite(p.smoothed) {
			e.resetParameter(p)
		}
	}
}

// sanitize zeroes non-finite fields of a sample so one bad producer cannot
// poison the frame. Warned once per signal.
func (e *Engine) sanitize(name string, s Sample) Sample {
	bad := !isFinite(s.Intensity)
	if bad {
		s.Intensity = 0
	}
	copied := false
	for axis, d := range s.Deltas {
		if !isFinite(d) {
			if !copied {
				// Copy before mutating; the producer may still hold the map.
				clean := make(map[string]float64, len(s.Deltas))
				for k, v := range s.Deltas {
					clean[k] = v
				}
				s.Deltas = clean
				copied = true
			}
			bad = true
			s.Deltas[axis] = 0
		}
	}
	if bad && !e.sampleWarned[name] {
		e.sampleWarned[name] = true
		e.log.Printf("source %s produced a non-finite sample, treating as zero", name)
	}
	return s
}

// resetParameter recovers a diverged parameter by returning it to its
// constrained base.
func (e *Engine) resetParameter(p *parameter) {
	if !p.warned {
		p.warned = true
		e.log.Printf("parameter %s diverged, resetting to base", p.id)
	}
	p.value = p.constraint.Apply(p.base)
	p.smoothed = p.value
}

// Start launches the internal frame scheduler at the configured FPS and
// hands each snapshot to consumer. It fails if the scheduler is already
// running. A nil consumer just advances the engine.
func (e *Engine) Start(consumer SnapshotFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.run(consumer, e.stop, e.done)
	return nil
}

func (e *Engine) run(consumer SnapshotFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(e.fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			// A tick already queued when Stop lands is dropped.
			if !e.running.Load() {
				return
			}
			snap := e.Tick(now)
			if consumer != nil && e.running.Load() {
				consumer(now, snap)
			}
		}
	}
}

// Stop halts the scheduler and waits for the frame goroutine to finish. No
// consumer call happens after Stop returns. Stopping a stopped engine is a
// no-op, and Start may be called again afterwards.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	e.mu.Lock()
	stop, done := e.stop, e.done
	e.mu.Unlock()
	close(stop)
	<-done
}
