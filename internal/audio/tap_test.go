package audio

import (
	"encoding/binary"
	"testing"
)

func TestTapLatestReturnsMostRecent(t *testing.T) {
	tap := NewTap(4)
	tap.WritePCM(pcm16(1, 2, 3, 4, 5, 6))

	got := tap.Latest(4)
	want := []int16{3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Latest(4) = %v, want %v", got, want)
		}
	}
}

func TestTapLatestShortFill(t *testing.T) {
	tap := NewTap(8)
	tap.WritePCM(pcm16(7, 8))

	got := tap.Latest(8)
	if len(got) != 2 {
		t.Fatalf("Latest(8) returned %d samples, want the 2 buffered", len(got))
	}
	if got[0] != 7 || got[1] != 8 {
		t.Fatalf("Latest(8) = %v, want [7 8]", got)
	}
}

func TestTapEmpty(t *testing.T) {
	tap := NewTap(8)
	if got := tap.Latest(4); got != nil {
		t.Fatalf("Latest() on empty tap = %v, want nil", got)
	}
}

func TestTapClear(t *testing.T) {
	tap := NewTap(8)
	tap.WritePCM(pcm16(1, 2, 3))
	tap.Clear()
	if got := tap.Latest(4); got != nil {
		t.Fatalf("Latest() after Clear() = %v, want nil", got)
	}
}

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}
