package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Fixed output format shared by the device and the analyzer.
const (
	playbackRate        = 48000
	playbackChannels    = 2
	playbackFrameSize   = playbackChannels * 2
	playbackBytesPerSec = playbackRate * playbackFrameSize
)

const resampleChunkFrames = 2048

// resampler presents any pcmStream as 48 kHz stereo s16le. Mono upmixes to
// both channels; other rates interpolate linearly between neighbouring
// source frames. Output is forward-only with a Rewind for looping.
type resampler struct {
	src      pcmStream
	srcRate  int
	channels int
	length   int64 // output bytes

	passthrough bool

	window   []int16 // upmixed stereo source frames
	winBase  int64   // absolute index of window frame 0
	srcDone  bool
	outFrame int64
	total    int64 // total output frames

	carry carry
}

func newResampler(src pcmStream) (*resampler, error) {
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", rate)
	}
	channels := src.ChannelCount()
	if channels < 1 || channels > playbackChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}

	srcFrames := src.Length() / (int64(channels) * 2)
	total := srcFrames * playbackRate / int64(rate)
	if srcFrames > 0 && total == 0 {
		total = 1
	}

	r := &resampler{
		src:         src,
		srcRate:     rate,
		channels:    channels,
		total:       total,
		length:      total * playbackFrameSize,
		passthrough: rate == playbackRate && channels == playbackChannels,
	}
	if r.passthrough {
		r.length = src.Length()
	}
	return r, nil
}

func (r *resampler) Length() int64 { return r.length }

func (r *resampler) Rewind() error {
	if err := r.src.Rewind(); err != nil {
		return err
	}
	r.window = r.window[:0]
	r.winBase = 0
	r.srcDone = false
	r.outFrame = 0
	r.carry.reset()
	return nil
}

func (r *resampler) Read(p []byte) (int, error) {
	if r.passthrough {
		return r.src.Read(p)
	}
	if n, ok := r.carry.drain(p); ok {
		return n, nil
	}
	if r.outFrame >= r.total {
		return 0, io.EOF
	}

	frames := len(p) / playbackFrameSize
	if frames == 0 {
		frames = 1
	}
	if remaining := r.total - r.outFrame; int64(frames) > remaining {
		frames = int(remaining)
	}

	raw := make([]byte, 0, frames*playbackFrameSize)
	for n := 0; n < frames; n++ {
		srcNum := r.outFrame * int64(r.srcRate)
		idx := srcNum / playbackRate
		frac := srcNum % playbackRate

		l0, r0, ok := r.frameAt(idx)
		if !ok {
			break
		}
		l1, r1, ok := r.frameAt(idx + 1)
		if !ok {
			l1, r1 = l0, r0
		}

		var frame [playbackFrameSize]byte
		binary.LittleEndian.PutUint16(frame[0:], uint16(lerpPCM(l0, l1, frac)))
		binary.LittleEndian.PutUint16(frame[2:], uint16(lerpPCM(r0, r1, frac)))
		raw = append(raw, frame[:]...)

		r.outFrame++
		r.dropBefore(idx)
	}

	if len(raw) == 0 {
		return 0, io.EOF
	}
	written := copy(p, raw)
	r.carry.stash(raw, written)
	return written, nil
}

// frameAt returns the stereo source frame at the absolute index, loading
// more source data as needed. Past the end it reports false.
func (r *resampler) frameAt(idx int64) (int16, int16, bool) {
	for idx >= r.winBase+int64(len(r.window))/playbackChannels {
		if r.srcDone {
			return 0, 0, false
		}
		r.loadChunk()
	}
	if idx < r.winBase {
		return 0, 0, false
	}
	off := int(idx-r.winBase) * playbackChannels
	return r.window[off], r.window[off+1], true
}

func (r *resampler) loadChunk() {
	buf := make([]byte, resampleChunkFrames*r.channels*2)
	n, err := io.ReadFull(r.src, buf)
	frames := n / (r.channels * 2)
	if err != nil {
		r.srcDone = true
	}
	for i := 0; i < frames; i++ {
		switch r.channels {
		case 1:
			v := int16(binary.LittleEndian.Uint16(buf[i*2:]))
			r.window = append(r.window, v, v)
		case 2:
			off := i * 4
			r.window = append(r.window,
				int16(binary.LittleEndian.Uint16(buf[off:])),
				int16(binary.LittleEndian.Uint16(buf[off+2:])))
		}
	}
}

// dropBefore discards window frames no later output frame can reference.
func (r *resampler) dropBefore(idx int64) {
	drop := idx - r.winBase
	if drop <= 0 {
		return
	}
	avail := int64(len(r.window)) / playbackChannels
	if drop > avail {
		drop = avail
	}
	samples := int(drop) * playbackChannels
	r.window = r.window[:copy(r.window, r.window[samples:])]
	r.winBase += drop
}

func lerpPCM(a, b int16, fracNum int64) int16 {
	if fracNum == 0 || a == b {
		return a
	}
	diff := int64(b) - int64(a)
	return int16(int64(a) + (diff*fracNum+playbackRate/2)/playbackRate)
}
