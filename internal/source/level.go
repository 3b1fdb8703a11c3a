package source

import (
	"sync"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

const (
	levelPeakDecay = 0.995
	levelPeakFloor = 0.01
)

// Level is a pushed scalar signal normalized against its own recent peak,
// so quiet and loud producers both sweep the full 0 to 1 range. The peak
// decays slowly, letting the range re-tighten after a loud burst.
type Level struct {
	mu       sync.Mutex
	produced bool
	raw      float64
	peak     float64
}

func NewLevel() *Level {
	return &Level{peak: levelPeakFloor}
}

// Set records the latest raw reading. Negative readings count as zero.
func (l *Level) Set(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v < 0 {
		v = 0
	}
	l.raw = v
	l.produced = true
}

// Pull reports the reading scaled against the decaying peak.
func (l *Level) Pull() (engine.Sample, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.produced {
		return engine.Sample{}, false
	}

	l.peak *= levelPeakDecay
	if l.raw > l.peak {
		l.peak = l.raw
	}
	if l.peak < levelPeakFloor {
		l.peak = levelPeakFloor
	}

	return engine.Sample{Intensity: l.raw / l.peak}, true
}
