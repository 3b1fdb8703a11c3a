package audio

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

const (
	fftSize         = 1024
	analyzeInterval = 16 * time.Millisecond

	bandSmoothing = 0.3   // one-pole smoothing of band energy
	peakDecay     = 0.999 // per-pass shrink of the normalization peak
	peakFloor     = 0.001
)

// Spectral band edges in Hz.
const (
	lowBandMaxHz  = 250
	midBandMaxHz  = 4000
	highBandMaxHz = 20000
)

// Analyzer turns the tap's sample stream into the four audio signals. Each
// pass mixes the freshest window to mono, applies a Hann window, runs an
// FFT, averages bin magnitudes per band, smooths, and normalizes against a
// slowly decaying peak so every band sweeps 0 to 1. Results are pushed into
// per-signal cells the engine pulls on its own schedule.
type Analyzer struct {
	tap   *Tap
	cells map[string]*engine.Cell

	low, mid, high, level float64
	peak                  float64

	fftBuf []complex128

	mu     sync.Mutex
	closed bool
}

func NewAnalyzer(tap *Tap) *Analyzer {
	return &Analyzer{
		tap: tap,
		cells: map[string]*engine.Cell{
			engine.SignalAudioLow:   engine.NewCell(),
			engine.SignalAudioMid:   engine.NewCell(),
			engine.SignalAudioHigh:  engine.NewCell(),
			engine.SignalAudioLevel: engine.NewCell(),
		},
		peak:   peakFloor,
		fftBuf: make([]complex128, fftSize),
	}
}

// Sources exposes the analyzer's output cells keyed by signal name, ready
// for engine.AttachSource.
func (a *Analyzer) Sources() map[string]engine.Source {
	out := make(map[string]engine.Source, len(a.cells))
	for name, cell := range a.cells {
		out[name] = cell
	}
	return out
}

// Start launches the analysis loop.
func (a *Analyzer) Start() {
	go a.run()
}

// Close stops the analysis loop.
func (a *Analyzer) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

func (a *Analyzer) run() {
	for {
		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()

		a.process()
		time.Sleep(analyzeInterval)
	}
}

// process runs one analysis pass over the freshest window. With less than a
// full window buffered it publishes nothing, so the engine keeps treating
// the audio signals as absent.
func (a *Analyzer) process() {
	samples := a.tap.Latest(fftSize * playbackChannels)
	if len(samples) < fftSize*playbackChannels {
		return
	}

	// Mono mix with a Hann window. Sum in float64: two full-scale int16
	// channels overflow int16.
	var sum float64
	for i := range fftSize {
		mono := (float64(samples[i*2]) + float64(samples[i*2+1])) / 65536.0
		sum += mono * mono
		w := 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(fftSize-1)))
		a.fftBuf[i] = complex(mono*w, 0)
	}
	rms := math.Sqrt(sum / fftSize)

	fft(a.fftBuf)

	binHz := float64(playbackRate) / fftSize
	low := a.bandMagnitude(1, int(lowBandMaxHz/binHz))
	mid := a.bandMagnitude(int(lowBandMaxHz/binHz), int(midBandMaxHz/binHz))
	high := a.bandMagnitude(int(midBandMaxHz/binHz), int(highBandMaxHz/binHz))

	a.low = a.low*bandSmoothing + low*(1-bandSmoothing)
	a.mid = a.mid*bandSmoothing + mid*(1-bandSmoothing)
	a.high = a.high*bandSmoothing + high*(1-bandSmoothing)
	a.level = a.level*bandSmoothing + rms*(1-bandSmoothing)

	a.peak *= peakDecay
	for _, v := range []float64{a.low, a.mid, a.high} {
		if v > a.peak {
			a.peak = v
		}
	}
	if a.peak < peakFloor {
		a.peak = peakFloor
	}

	a.cells[engine.SignalAudioLow].Push(engine.Sample{Intensity: a.low / a.peak})
	a.cells[engine.SignalAudioMid].Push(engine.Sample{Intensity: a.mid / a.peak})
	a.cells[engine.SignalAudioHigh].Push(engine.Sample{Intensity: a.high / a.peak})
	a.cells[engine.SignalAudioLevel].Push(engine.Sample{Intensity: clamp01(a.level * 4)})
}

// bandMagnitude averages bin magnitudes over [lo, hi).
func (a *Analyzer) bandMagnitude(lo, hi int) float64 {
	if lo < 1 {
		lo = 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	if hi > fftSize/2 {
		hi = fftSize / 2
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += cmplx.Abs(a.fftBuf[i])
	}
	return sum / float64(hi-lo)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fft runs an in-place radix-2 Cooley-Tukey transform. len(buf) must be a
// power of two.
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := -2.0 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := range half {
				w := cmplx.Rect(1, step*float64(k))
				a, b := start+k, start+k+half
				t := w * buf[b]
				buf[b] = buf[a] - t
				buf[a] += t
			}
		}
	}
}
