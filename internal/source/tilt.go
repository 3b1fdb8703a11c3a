package source

import (
	"math"
	"sync"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

// Tilt converts absolute device-orientation readings into per-frame angle
// deltas keyed "alpha", "beta", and "gamma". The first reading only sets
// the baseline; every later reading contributes its difference from the
// previous one. Orientation is continuous, so there is no release phase.
type Tilt struct {
	mu       sync.Mutex
	produced bool
	baseline bool

	lastAlpha, lastBeta, lastGamma float64
	dAlpha, dBeta, dGamma          float64
}

func NewTilt() *Tilt {
	return &Tilt{}
}

// Orient records an absolute orientation reading in degrees.
func (t *Tilt) Orient(alpha, beta, gamma float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.baseline {
		t.dAlpha += angleDelta(t.lastAlpha, alpha)
		t.dBeta += beta - t.lastBeta
		t.dGamma += gamma - t.lastGamma
	}
	t.lastAlpha, t.lastBeta, t.lastGamma = alpha, beta, gamma
	t.baseline = true
	t.produced = true
}

// Pull returns the deltas accumulated since the previous frame and clears
// them, so a still device contributes nothing.
func (t *Tilt) Pull() (engine.Sample, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.produced {
		return engine.Sample{}, false
	}
	da, db, dg := t.dAlpha, t.dBeta, t.dGamma
	t.dAlpha, t.dBeta, t.dGamma = 0, 0, 0

	return engine.Sample{
		Intensity: math.Sqrt(da*da + db*db + dg*dg),
		Deltas:    map[string]float64{"alpha": da, "beta": db, "gamma": dg},
	}, true
}

// angleDelta is the shortest signed distance between two compass headings,
// so a swing from 359 to 1 reads as +2 rather than -358.
func angleDelta(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}
