// Package audio feeds the engine's audio signals. A track decodes to PCM,
// plays through the output device, and is teed into a tap; the analyzer
// reads the tap once per frame and publishes normalized low, mid, high, and
// level energies as engine sources. Without a track a synthesizer writes a
// generated signal into the same tap, so the analysis path never idles.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcmStream is a decoded track: sequential s16le PCM in the stream's native
// rate and channel count, restartable from the top. Played tracks loop, so
// Rewind replaces general seeking.
type pcmStream interface {
	io.Reader
	Rewind() error
	Length() int64 // total PCM bytes in native format
	SampleRate() int
	ChannelCount() int
}

// openStream picks a decoder by file extension.
func openStream(f *os.File) (pcmStream, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".mp3":
		return newMP3Stream(f)
	case ".wav":
		return newWAVStream(f)
	case ".flac":
		return newFLACStream(f)
	case ".ogg":
		return newOGGStream(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// carry holds converted PCM that did not fit the caller's slice.
type carry struct {
	buf []byte
}

func (c *carry) drain(p []byte) (int, bool) {
	if len(c.buf) == 0 {
		return 0, false
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, true
}

func (c *carry) stash(raw []byte, written int) {
	if written < len(raw) {
		c.buf = append(c.buf[:0], raw[written:]...)
	}
}

func (c *carry) reset() {
	c.buf = nil
}

func clampPCM(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}

// --- MP3 ---

type mp3Stream struct {
	dec *mp3.Decoder
}

func newMP3Stream(f *os.File) (*mp3Stream, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Stream{dec: dec}, nil
}

func (s *mp3Stream) Read(p []byte) (int, error) { return s.dec.Read(p) }

func (s *mp3Stream) Rewind() error {
	_, err := s.dec.Seek(0, io.SeekStart)
	return err
}

func (s *mp3Stream) Length() int64     { return s.dec.Length() }
func (s *mp3Stream) SampleRate() int   { return s.dec.SampleRate() }
func (s *mp3Stream) ChannelCount() int { return 2 } // go-mp3 always emits stereo

// --- WAV ---

type wavStream struct {
	file       *os.File
	carry      carry
	pcmStart   int64
	length     int64
	sampleRate int
	channels   int
	bitDepth   int
}

func newWAVStream(f *os.File) (*wavStream, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	srcFrame := int64(channels) * int64(bitDepth) / 8
	frames := dec.PCMLen() / srcFrame

	// File offset where PCM begins, for Rewind.
	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM start: %w", err)
	}

	return &wavStream{
		file:       f,
		pcmStart:   pcmStart,
		length:     frames * int64(channels) * 2,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
	}, nil
}

func (s *wavStream) Read(p []byte) (int, error) {
	if n, ok := s.carry.drain(p); ok {
		return n, nil
	}

	srcBytes := s.bitDepth / 8
	samples := len(p) / 2
	if samples == 0 {
		samples = 1
	}
	src := make([]byte, samples*srcBytes)
	n, err := io.ReadFull(s.file, src)
	if n == 0 {
		if err != nil && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		return 0, io.EOF
	}
	read := n / srcBytes
	if read == 0 {
		return 0, io.EOF
	}

	raw := make([]byte, read*2)
	for i := 0; i < read; i++ {
		off := i * srcBytes
		var sample int
		switch s.bitDepth {
		case 8:
			// 8-bit WAV is unsigned.
			sample = (int(src[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			v := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF
			}
			sample = int(v >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		default:
			return 0, fmt.Errorf("unsupported WAV bit depth: %d", s.bitDepth)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clampPCM(sample)))
	}

	written := copy(p, raw)
	s.carry.stash(raw, written)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	return written, err
}

func (s *wavStream) Rewind() error {
	if _, err := s.file.Seek(s.pcmStart, io.SeekStart); err != nil {
		return err
	}
	s.carry.reset()
	return nil
}

func (s *wavStream) Length() int64     { return s.length }
func (s *wavStream) SampleRate() int   { return s.sampleRate }
func (s *wavStream) ChannelCount() int { return s.channels }

// --- FLAC ---

type flacStream struct {
	stream   *flac.Stream
	carry    carry
	length   int64
	rate     int
	channels int
	bps      int
}

func newFLACStream(f *os.File) (*flacStream, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	return &flacStream{
		stream:   stream,
		length:   int64(info.NSamples) * int64(info.NChannels) * 2,
		rate:     int(info.SampleRate),
		channels: int(info.NChannels),
		bps:      int(info.BitsPerSample),
	}, nil
}

func (s *flacStream) Read(p []byte) (int, error) {
	if n, ok := s.carry.drain(p); ok {
		return n, nil
	}

	frame, err := s.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*s.channels*2)
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < s.channels; ch++ {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case s.bps > 16:
				sample >>= s.bps - 16
			case s.bps < 16:
				sample <<= 16 - s.bps
			}
			off := (i*s.channels + ch) * 2
			binary.LittleEndian.PutUint16(raw[off:], uint16(clampPCM(sample)))
		}
	}

	written := copy(p, raw)
	s.carry.stash(raw, written)
	return written, nil
}

func (s *flacStream) Rewind() error {
	if _, err := s.stream.Seek(0); err != nil {
		return err
	}
	s.carry.reset()
	return nil
}

func (s *flacStream) Length() int64     { return s.length }
func (s *flacStream) SampleRate() int   { return s.rate }
func (s *flacStream) ChannelCount() int { return s.channels }

// --- OGG Vorbis ---

type oggStream struct {
	reader   *oggvorbis.Reader
	carry    carry
	length   int64
	rate     int
	channels int
}

func newOGGStream(f *os.File) (*oggStream, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := reader.Channels()
	return &oggStream{
		reader:   reader,
		length:   reader.Length() * int64(channels) * 2,
		rate:     reader.SampleRate(),
		channels: channels,
	}, nil
}

func (s *oggStream) Read(p []byte) (int, error) {
	if n, ok := s.carry.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, len(p)/2)
	n, err := s.reader.Read(samples)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := samples[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(v*32767)))
	}

	written := copy(p, raw)
	s.carry.stash(raw, written)
	return written, err
}

func (s *oggStream) Rewind() error {
	if err := s.reader.SetPosition(0); err != nil {
		return err
	}
	s.carry.reset()
	return nil
}

func (s *oggStream) Length() int64     { return s.length }
func (s *oggStream) SampleRate() int   { return s.rate }
func (s *oggStream) ChannelCount() int { return s.channels }
