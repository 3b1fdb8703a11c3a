package engine

import (
	"math"
	"time"
)

// Signal names wired by Default. Sources registered under these names feed
// the default relations; anything else can be wired up manually.
const (
	SignalAudioLow    = "audioLow"
	SignalAudioMid    = "audioMid"
	SignalAudioHigh   = "audioHigh"
	SignalAudioLevel  = "audioLevel"
	SignalPointer     = "pointer"
	SignalPinch       = "pinch"
	SignalTilt        = "tilt"
	SignalRemoteLevel = "remoteLevel"
)

// defaultParameters is the standard lattice parameter set: color in HSV
// terms, lattice geometry, and the three 4D rotation planes.
var defaultParameters = []struct {
	id         string
	base       float64
	constraint Constraint
	category   Category
}{
	{"hue", 200, WrapRange(0, 360), CategoryColor},
	{"intensity", 0.5, Clamp(0, 1), CategoryColor},
	{"saturation", 0.8, Clamp(0, 1), CategoryColor},
	{"gridDensity", 15, Clamp(4, 100), CategoryMotion},
	{"morphFactor", 1.0, Clamp(0, 2), CategoryMotion},
	{"dimension", 3.8, Clamp(3.0, 4.5), CategoryMotion},
	{"speed", 1.0, Clamp(0.1, 3), CategoryMisc},
	{"chaos", 0.2, Clamp(0, 1), CategoryMisc},
	{"rot4dXW", 0, WrapRange(-math.Pi, math.Pi), CategoryRotation},
	{"rot4dYW", 0, WrapRange(-math.Pi, math.Pi), CategoryRotation},
	{"rot4dZW", 0, WrapRange(-math.Pi, math.Pi), CategoryRotation},
}

// Default returns an engine loaded with the standard parameter set, the
// audio and gesture couplings, and the breathing bank. Everything installed
// here can be reshaped afterwards through the regular configuration calls.
func Default(cfg Config) *Engine {
	e := New(cfg)

	for _, reg := range defaultParameters {
		must(e.Register(reg.id, reg.base, reg.constraint, reg.category))
	}

	// Audio bands push energy into the lattice: lows thicken and rattle it,
	// mids morph it, highs recolor it.
	must(e.DefineRelation(SignalAudioLow,
		[]string{"gridDensity", "chaos"}, nil,
		map[string]float64{"gridDensity": 12, "chaos": 0.3}))
	must(e.DefineRelation(SignalAudioMid,
		[]string{"morphFactor", "speed"}, nil,
		map[string]float64{"morphFactor": 0.8, "speed": 0.6}))
	must(e.DefineRelation(SignalAudioHigh,
		[]string{"hue", "intensity"}, nil,
		map[string]float64{"hue": 50, "intensity": 0.4}))
	must(e.DefineRelation(SignalAudioLevel,
		[]string{"saturation"}, nil,
		map[string]float64{"saturation": 0.2}))

	// Viewers can push an energy level of their own over the bridge.
	must(e.DefineRelation(SignalRemoteLevel,
		[]string{"intensity", "saturation"}, nil,
		map[string]float64{"intensity": 0.3, "saturation": 0.15}))

	// Dragging spins the 4D planes; drag speed trades lattice density for
	// chaos. Pinch zooms density directly.
	must(e.DefineRelation(SignalPointer+".x",
		[]string{"rot4dYW"}, nil,
		map[string]float64{"rot4dYW": 0.01}))
	must(e.DefineRelation(SignalPointer+".y",
		[]string{"rot4dXW"}, nil,
		map[string]float64{"rot4dXW": 0.01}))
	must(e.DefineRelation(SignalPointer,
		[]string{"chaos"}, []string{"gridDensity"},
		map[string]float64{"chaos": 0.25, "gridDensity": 0.4}))
	must(e.DefineRelation(SignalPinch,
		[]string{"gridDensity"}, nil,
		map[string]float64{"gridDensity": 0.5}))

	// Device tilt maps each orientation axis onto a rotation plane.
	must(e.DefineRelation(SignalTilt+".alpha",
		[]string{"rot4dZW"}, nil,
		map[string]float64{"rot4dZW": 0.02}))
	must(e.DefineRelation(SignalTilt+".beta",
		[]string{"rot4dXW"}, nil,
		map[string]float64{"rot4dXW": 0.02}))
	must(e.DefineRelation(SignalTilt+".gamma",
		[]string{"rot4dYW"}, nil,
		map[string]float64{"rot4dYW": 0.02}))

	// Slow breathing keeps the lattice alive when every input sits idle.
	must(e.DefineOscillator("breatheDensity", 8*time.Second, 1.5, []string{"gridDensity"}))
	must(e.DefineOscillator("breatheMorph", 12*time.Second, 0.12, []string{"morphFactor"}))
	must(e.DefineOscillator("breatheGlow", 6*time.Second, 0.08, []string{"intensity"}))

	return e
}

// must guards Default's hardcoded registrations, which cannot fail.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
