// Package engine fuses asynchronously sampled input signals into one
// bounded, smoothed parameter snapshot per frame. Producers push samples
// into sources at their own rate; the engine pulls the freshest sample from
// every source once per frame, routes it through the relationship table,
// adds the breathing oscillators, then constrains and smooths every
// parameter. Consumers only ever see the finished snapshot.
package engine

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const defaultFPS = 30

// Config carries the engine's ambient knobs. The zero value is usable.
type Config struct {
	// FPS is the frame rate of the internal scheduler started by Start.
	// Hosts that call Tick themselves can ignore it. Defaults to 30.
	FPS int
	// Log receives the engine's once-only anomaly warnings. Nil discards.
	Log *log.Logger
}

// Engine owns the parameter store, relationship table, oscillator bank, and
// smoother, and coordinates them once per frame. All methods are safe for
// concurrent use; sample producers stay lock-free through their sources.
type Engine struct {
	mu        sync.Mutex
	store     *store
	relations *relationTable
	bank      *oscillatorBank
	smoother  *smoother
	breathing bool

	sources     map[string]Source
	sourceOrder []string

	missingWarned map[string]bool
	sampleWarned  map[string]bool

	log *log.Logger
	fps int

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// New returns an empty engine. Parameters, relations, and oscillators are
// added through the configuration calls; Default loads the standard set.
func New(cfg Config) *Engine {
	logger := cfg.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return &Engine{
		store:         newStore(),
		relations:     newRelationTable(),
		bank:          newOscillatorBank(),
		smoother:      newSmoother(),
		breathing:     true,
		sources:       make(map[string]Source),
		missingWarned: make(map[string]bool),
		sampleWarned:  make(map[string]bool),
		log:           logger,
		fps:           fps,
	}
}

// Register adds a parameter. The id must be new, the base finite, and the
// constraint well formed; the parameter starts at its constrained base.
func (e *Engine) Register(id string, base float64, c Constraint, cat Category) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.register(id, base, c, cat)
}

// SetBase changes a parameter's resting value.
func (e *Engine) SetBase(id string, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.setBase(id, v)
}

// SetBases changes several resting values at once. The whole batch is
// validated first; one bad entry rejects everything.
func (e *Engine) SetBases(values map[string]float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := e.store.get(id); err != nil {
			return err
		}
		if !isFinite(values[id]) {
			return fmt.Errorf("parameter %s: base: %w", id, ErrNonFinite)
		}
	}
	for _, id := range ids {
		e.store.params[id].base = values[id]
	}
	return nil
}

// AdjustBase nudges a parameter's resting value by delta, keeping it inside
// the parameter's constraint.
func (e *Engine) AdjustBase(id string, delta float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.get(id)
	if err != nil {
		return err
	}
	if !isFinite(delta) {
		return fmt.Errorf("parameter %s: delta: %w", id, ErrNonFinite)
	}
	p.base = p.constraint.Apply(p.base + delta)
	return nil
}

// Base returns a parameter's current resting value.
func (e *Engine) Base(id string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.get(id)
	if err != nil {
		return 0, err
	}
	return p.base, nil
}

// SetConstraint replaces a parameter's bounds. The new bounds take effect
// on the next frame.
func (e *Engine) SetConstraint(id string, c Constraint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.get(id)
	if err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("parameter %s: %w", id, err)
	}
	p.constraint = c
	return nil
}

// DefineRelation couples a signal to parameters. Positive targets move with
// the signal, negative against it; multipliers default to 1. Contributions
// from separate relations to a shared target add together. Unknown target
// ids are rejected here so frames never fail.
func (e *Engine) DefineRelation(signal string, positive, negative []string, mult map[string]float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.relations.define(signal, positive, negative, mult, e.store)
}

// DefineOscillator adds a breathing oscillator over the given targets.
func (e *Engine) DefineOscillator(name string, period time.Duration, amplitude float64, targets []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.define(name, period, amplitude, targets, e.store)
}

// SetBreathing enables or disables the whole oscillator bank.
func (e *Engine) SetBreathing(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.breathing = enabled
}

// Breathing reports whether the oscillator bank is running.
func (e *Engine) Breathing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.breathing
}

// SetSmoothingFactor overrides one category's smoothing factor. Factors
// live in (0, 1]; 1 disables smoothing for the category.
func (e *Engine) SetSmoothingFactor(cat Category, f float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.smoother.setFactor(cat, f)
}

// AttachSource binds a signal name to a source. Sources may attach before
// or after Start; relations referencing a signal with no source warn once
// and contribute nothing until one attaches.
func (e *Engine) AttachSource(name string, src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return fmt.Errorf("attach source: empty name")
	}
	if src == nil {
		return fmt.Errorf("attach source %s: nil source", name)
	}
	if _, ok := e.sources[name]; ok {
		return fmt.Errorf("attach source %s: %w", name, ErrSourceExists)
	}
	e.sources[name] = src
	e.sourceOrder = append(e.sourceOrder, name)
	return nil
}

// Info describes a registered parameter.
func (e *Engine) Info(id string) (ParameterInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.get(id)
	if err != nil {
		return ParameterInfo{}, err
	}
	return ParameterInfo{
		ID:       p.id,
		Base:     p.base,
		Min:      p.constraint.Min,
		Max:      p.constraint.Max,
		Wrap:     p.constraint.Wrap,
		Category: p.category,
	}, nil
}

// ParameterIDs lists registered parameters in registration order.
func (e *Engine) ParameterIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.store.order...)
}

// Snapshot returns a copy of every parameter's current smoothed value.
// Before the first frame that is each parameter's constrained base.
func (e *Engine) Snapshot() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.snapshot()
}
