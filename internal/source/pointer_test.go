package source

import (
	"math"
	"testing"
)

func TestPointerBeforeFirstEvent(t *testing.T) {
	p, err := NewPointer(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	if _, ok := p.Pull(); ok {
		t.Fatal("Pull() before any event reported a sample")
	}
}

func TestNewPointerValidation(t *testing.T) {
	for _, d := range []float64{0, 1, 1.5, -0.2} {
		if _, err := NewPointer(d, DefaultEpsilon); err == nil {
			t.Fatalf("NewPointer(dampening=%v) accepted an invalid factor", d)
		}
	}
	if _, err := NewPointer(DefaultDampening, 0); err == nil {
		t.Fatal("NewPointer(epsilon=0) accepted an invalid cutoff")
	}
}

func TestPointerActiveVelocity(t *testing.T) {
	p, err := NewPointer(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(3, 4)

	s, ok := p.Pull()
	if !ok {
		t.Fatal("Pull() reported no sample after a drag")
	}
	if math.Abs(s.Intensity-5) > 1e-9 {
		t.Fatalf("Intensity = %v, want 5", s.Intensity)
	}
	if s.Deltas["x"] != 3 || s.Deltas["y"] != 4 {
		t.Fatalf("Deltas = %v, want x=3 y=4", s.Deltas)
	}
}

func TestPointerAccumulatesWithinFrame(t *testing.T) {
	p, err := NewPointer(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(1, 0)
	p.Drag(2, 0)

	s, _ := p.Pull()
	if s.Deltas["x"] != 3 {
		t.Fatalf("x delta = %v, want events summed to 3", s.Deltas["x"])
	}
}

func TestPointerHeldStill(t *testing.T) {
	p, err := NewPointer(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(5, 0)
	p.Pull()

	s, ok := p.Pull()
	if !ok {
		t.Fatal("Pull() while held reported no sample")
	}
	if s.Intensity != 0 {
		t.Fatalf("Intensity while held still = %v, want 0", s.Intensity)
	}
}

func TestPointerMomentumDecay(t *testing.T) {
	const (
		dampening = 0.5
		epsilon   = 0.001
		v0        = 10.0
	)
	p, err := NewPointer(dampening, epsilon)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(v0, 0)
	p.Release()

	s, _ := p.Pull()
	if math.Abs(s.Intensity-v0) > 1e-9 {
		t.Fatalf("release frame intensity = %v, want full %v", s.Intensity, v0)
	}

	frames := int(math.Ceil(math.Log(epsilon/v0) / math.Log(dampening)))
	prev := v0
	for range frames {
		s, ok := p.Pull()
		if !ok {
			t.Fatal("Pull() during decay reported no sample")
		}
		if s.Intensity > prev {
			t.Fatalf("momentum grew from %v to %v", prev, s.Intensity)
		}
		prev = s.Intensity
	}
	if prev != 0 {
		t.Fatalf("intensity = %v after %d decay frames, want exactly 0", prev, frames)
	}
}

func TestPointerNewDragInterruptsMomentum(t *testing.T) {
	p, err := NewPointer(0.9, 0.001)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(10, 0)
	p.Release()
	p.Pull()
	p.Pull() // one decay frame

	p.Drag(0, 2)
	s, _ := p.Pull()
	if s.Deltas["x"] != 0 || s.Deltas["y"] != 2 {
		t.Fatalf("Deltas after re-grab = %v, want the new gesture only", s.Deltas)
	}
}

func TestPointerStationaryReleaseHasNoMomentum(t *testing.T) {
	p, err := NewPointer(0.9, 0.001)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	p.Drag(10, 0)
	p.Pull()
	p.Pull() // held still, velocity drops to zero
	p.Release()
	p.Pull()

	s, _ := p.Pull()
	if s.Intensity != 0 {
		t.Fatalf("intensity after stationary release = %v, want 0", s.Intensity)
	}
}
