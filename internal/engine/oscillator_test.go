package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

func newBreathingEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(Config{})
	if err := e.Register("gridDensity", 15, Clamp(4, 100), CategoryMotion); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := e.SetSmoothingFactor(CategoryMotion, 1); err != nil {
		t.Fatalf("SetSmoothingFactor() error = %v", err)
	}
	if err := e.DefineOscillator("breathe", 8*time.Second, 1.5, []string{"gridDensity"}); err != nil {
		t.Fatalf("DefineOscillator() error = %v", err)
	}
	return e
}

func TestOscillatorQuarterPhase(t *testing.T) {
	e := newBreathingEngine(t)
	snap := e.Tick(time.Unix(2, 0))
	if got, want := snap["gridDensity"], 16.5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("gridDensity at quarter phase = %v, want %v", got, want)
	}
}

func TestOscillatorZeroPhase(t *testing.T) {
	e := newBreathingEngine(t)
	if got := e.Tick(time.Unix(0, 0))["gridDensity"]; math.Abs(got-15) > 1e-9 {
		t.Fatalf("gridDensity at phase 0 = %v, want 15", got)
	}
	if got := e.Tick(time.Unix(8, 0))["gridDensity"]; math.Abs(got-15) > 1e-9 {
		t.Fatalf("gridDensity after one full period = %v, want 15", got)
	}
}

func TestOscillatorDisabled(t *testing.T) {
	e := newBreathingEngine(t)
	e.SetBreathing(false)
	if got := e.Tick(time.Unix(2, 0))["gridDensity"]; math.Abs(got-15) > 1e-9 {
		t.Fatalf("gridDensity with breathing off = %v, want 15", got)
	}
}

func TestOscillatorPhaseFollowsClockOnly(t *testing.T) {
	// Two engines fed the same final instant agree exactly, regardless of
	// how many frames each saw before it.
	a := newBreathingEngine(t)
	b := newBreathingEngine(t)
	for s := range 5 {
		a.Tick(time.Unix(int64(s), 0))
	}
	got := a.Tick(time.Unix(5, 500000000))["gridDensity"]
	want := b.Tick(time.Unix(5, 500000000))["gridDensity"]
	if got != want {
		t.Fatalf("phase diverged across histories: %v vs %v", got, want)
	}
}

func TestDefineOscillatorValidation(t *testing.T) {
	e := New(Config{})
	if err := e.Register("x", 0, Clamp(0, 1), CategoryMisc); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := e.DefineOscillator("bad", 0, 1, []string{"x"})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("DefineOscillator(period 0) error = %v, want ErrInvalidPeriod", err)
	}
	err = e.DefineOscillator("bad", time.Second, 1, []string{"ghost"})
	if !errors.Is(err, ErrParameterUnknown) {
		t.Fatalf("DefineOscillator(ghost target) error = %v, want ErrParameterUnknown", err)
	}
}
