package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

func TestAnalyzerNeedsFullWindow(t *testing.T) {
	tap := NewTap(fftSize * playbackChannels * 2)
	a := NewAnalyzer(tap)
	tap.WritePCM(pcm16(1, 2, 3, 4))

	a.process()
	if _, ok := a.Sources()[engine.SignalAudioLow].Pull(); ok {
		t.Fatal("analyzer published bands from a partial window")
	}
}

func TestAnalyzerLowToneFillsLowBand(t *testing.T) {
	tap := NewTap(fftSize * playbackChannels * 2)
	a := NewAnalyzer(tap)
	writeSine(tap, 100, 0.8)

	a.process()
	low := pullIntensity(t, a, engine.SignalAudioLow)
	mid := pullIntensity(t, a, engine.SignalAudioMid)
	high := pullIntensity(t, a, engine.SignalAudioHigh)
	if low <= mid || low <= high {
		t.Fatalf("100 Hz tone: low=%v mid=%v high=%v, want low dominant", low, mid, high)
	}
}

func TestAnalyzerHighToneFillsHighBand(t *testing.T) {
	tap := NewTap(fftSize * playbackChannels * 2)
	a := NewAnalyzer(tap)
	writeSine(tap, 8000, 0.8)

	a.process()
	low := pullIntensity(t, a, engine.SignalAudioLow)
	mid := pullIntensity(t, a, engine.SignalAudioMid)
	high := pullIntensity(t, a, engine.SignalAudioHigh)
	if high <= low || high <= mid {
		t.Fatalf("8 kHz tone: low=%v mid=%v high=%v, want high dominant", low, mid, high)
	}
}

func TestAnalyzerSilenceIsQuiet(t *testing.T) {
	tap := NewTap(fftSize * playbackChannels * 2)
	a := NewAnalyzer(tap)
	tap.WritePCM(make([]byte, fftSize*playbackChannels*2*2))

	a.process()
	if level := pullIntensity(t, a, engine.SignalAudioLevel); level != 0 {
		t.Fatalf("level for silence = %v, want 0", level)
	}
}

func TestAnalyzerLoudToneRaisesLevel(t *testing.T) {
	tap := NewTap(fftSize * playbackChannels * 2)
	a := NewAnalyzer(tap)
	writeSine(tap, 440, 0.8)

	a.process()
	if level := pullIntensity(t, a, engine.SignalAudioLevel); level < 0.5 {
		t.Fatalf("level for a loud tone = %v, want at least 0.5", level)
	}
}

func writeSine(tap *Tap, freq, amp float64) {
	frames := fftSize * 2
	buf := make([]byte, frames*playbackFrameSize)
	for i := range frames {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/playbackRate))
		binary.LittleEndian.PutUint16(buf[i*playbackFrameSize:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*playbackFrameSize+2:], uint16(v))
	}
	tap.WritePCM(buf)
}

func pullIntensity(t *testing.T, a *Analyzer, signal string) float64 {
	t.Helper()
	s, ok := a.Sources()[signal].Pull()
	if !ok {
		t.Fatalf("signal %s published nothing", signal)
	}
	return s.Intensity
}
