package audio

import (
	"testing"
	"time"
)

func TestSynthFeedsTap(t *testing.T) {
	tap := NewTap(DefaultTapCapacity)
	s := NewSynth(tap)
	s.Start()
	defer s.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		samples := tap.Latest(fftSize * playbackChannels)
		if len(samples) == fftSize*playbackChannels {
			for _, v := range samples {
				if v > 1000 || v < -1000 {
					return
				}
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("synth wrote no audible samples before the deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
