package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

const synthChunk = 20 * time.Millisecond

// Synth writes a generated signal into the tap at real-time rate, driving
// the same analysis path as playback when no track is given. The mix is a
// beating bass tone, a slowly sweeping mid tone, and a pulsing high
// shimmer, so all three bands stay visibly alive.
type Synth struct {
	tap *Tap

	mu     sync.Mutex
	closed bool
}

func NewSynth(tap *Tap) *Synth {
	return &Synth{tap: tap}
}

// Start launches the generator loop.
func (s *Synth) Start() {
	go s.run()
}

// Close stops the generator loop.
func (s *Synth) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Synth) run() {
	frames := int(playbackRate * synthChunk / time.Second)
	buf := make([]byte, frames*playbackFrameSize)
	var t float64

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		for i := range frames {
			tt := t + float64(i)/playbackRate

			// 55 Hz bass gated by a 1 Hz beat.
			gate := math.Sin(2 * math.Pi * 1.0 * tt)
			if gate < 0 {
				gate = 0
			}
			bass := 0.7 * gate * gate * math.Sin(2*math.Pi*55*tt)

			// Mid tone sweeping around 700 Hz.
			mid := 0.25 * math.Sin(2*math.Pi*(700+300*math.Sin(2*math.Pi*0.11*tt))*tt)

			// High shimmer pulsing out of phase with the bass.
			high := 0.12 * (0.5 + 0.5*math.Sin(2*math.Pi*0.37*tt+1)) * math.Sin(2*math.Pi*7000*tt)

			v := int16(clampSynth(bass+mid+high) * 32767)
			binary.LittleEndian.PutUint16(buf[i*playbackFrameSize:], uint16(v))
			binary.LittleEndian.PutUint16(buf[i*playbackFrameSize+2:], uint16(v))
		}
		s.tap.WritePCM(buf)
		t += synthChunk.Seconds()

		time.Sleep(synthChunk)
	}
}

func clampSynth(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
