package audio

import (
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
)

// Tap is a thread-safe ring of the most recent interleaved s16le samples.
// Playback and the synthesizer write into it at their own pace; the
// analyzer reads the freshest window once per frame. Writers never block
// and old samples are silently overwritten.
type Tap struct {
	mu   sync.Mutex
	buf  []int16
	w    int
	fill int
}

// DefaultTapCapacity holds two full analysis windows of stereo samples.
const DefaultTapCapacity = fftSize * playbackChannels * 2

// NewTap returns a tap holding capacity samples.
func NewTap(capacity int) *Tap {
	return &Tap{buf: make([]int16, capacity)}
}

// WritePCM appends s16le bytes. A trailing odd byte is dropped.
func (t *Tap) WritePCM(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p) / 2
	for i := 0; i < n; i++ {
		t.buf[t.w] = int16(binary.LittleEndian.Uint16(p[i*2:]))
		t.w = (t.w + 1) % len(t.buf)
	}
	t.fill += n
	if t.fill > len(t.buf) {
		t.fill = len(t.buf)
	}
}

// Latest returns up to n of the most recent samples, oldest first.
func (t *Tap) Latest(n int) []int16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n > t.fill {
		n = t.fill
	}
	if n == 0 {
		return nil
	}
	out := make([]int16, n)
	start := (t.w - n + len(t.buf)) % len(t.buf)
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}

// Clear empties the tap.
func (t *Tap) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.fill = 0
}

// tapReader tees everything read from the PCM stream into the tap and
// counts bytes for position reporting.
type tapReader struct {
	src io.Reader
	tap *Tap
	pos atomic.Int64
}

func (r *tapReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.tap.WritePCM(p[:n])
		r.pos.Add(int64(n))
	}
	return n, err
}
