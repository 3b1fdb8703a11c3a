package source

import (
	"math"
	"testing"
)

func TestLevelBeforeFirstSet(t *testing.T) {
	l := NewLevel()
	if _, ok := l.Pull(); ok {
		t.Fatal("Pull() before any reading reported a sample")
	}
}

func TestLevelNormalizesToPeak(t *testing.T) {
	l := NewLevel()
	l.Set(0.5)

	s, ok := l.Pull()
	if !ok {
		t.Fatal("Pull() reported no sample")
	}
	if math.Abs(s.Intensity-1) > 1e-9 {
		t.Fatalf("Intensity = %v, want 1 at the current peak", s.Intensity)
	}
}

func TestLevelPeakDecays(t *testing.T) {
	l := NewLevel()
	l.Set(5)
	l.Pull()

	l.Set(2.5)
	s, _ := l.Pull()
	want := 2.5 / (5 * levelPeakDecay)
	if math.Abs(s.Intensity-want) > 1e-9 {
		t.Fatalf("Intensity = %v, want %v against the decayed peak", s.Intensity, want)
	}
}

func TestLevelNegativeReadingCountsAsZero(t *testing.T) {
	l := NewLevel()
	l.Set(-1)

	s, _ := l.Pull()
	if s.Intensity != 0 {
		t.Fatalf("Intensity = %v for a negative reading, want 0", s.Intensity)
	}
}
