package source

import (
	"math"
	"testing"
)

func TestPinchSignedIntensity(t *testing.T) {
	p, err := NewPinch(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPinch() error = %v", err)
	}
	p.Scale(-0.5)

	s, ok := p.Pull()
	if !ok {
		t.Fatal("Pull() reported no sample after a scale event")
	}
	if s.Intensity != -0.5 {
		t.Fatalf("Intensity = %v, want -0.5 for a pinch in", s.Intensity)
	}
}

func TestPinchMomentumDecayTerminates(t *testing.T) {
	const (
		dampening = 0.5
		epsilon   = 0.01
	)
	p, err := NewPinch(dampening, epsilon)
	if err != nil {
		t.Fatalf("NewPinch() error = %v", err)
	}
	p.Scale(1)
	p.Release()
	p.Pull()

	frames := int(math.Ceil(math.Log(epsilon) / math.Log(dampening)))
	var last float64
	for range frames {
		s, _ := p.Pull()
		last = s.Intensity
	}
	if last != 0 {
		t.Fatalf("intensity = %v after %d decay frames, want 0", last, frames)
	}
}

func TestPinchQuietWhileHeld(t *testing.T) {
	p, err := NewPinch(DefaultDampening, DefaultEpsilon)
	if err != nil {
		t.Fatalf("NewPinch() error = %v", err)
	}
	p.Scale(0.3)
	p.Pull()

	s, _ := p.Pull()
	if s.Intensity != 0 {
		t.Fatalf("Intensity while held = %v, want 0", s.Intensity)
	}
}
