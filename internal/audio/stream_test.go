package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenStreamDecodesWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 42, 7, -7}
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, 2, samples)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	s, err := openStream(f)
	if err != nil {
		t.Fatalf("openStream() error = %v", err)
	}
	if s.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %d, want 44100", s.SampleRate())
	}
	if s.ChannelCount() != 2 {
		t.Fatalf("ChannelCount() = %d, want 2", s.ChannelCount())
	}
	if got, want := s.Length(), int64(len(samples)*2); got != want {
		t.Fatalf("Length() = %d, want %d", got, want)
	}

	out, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(out, pcm16(samples...)) {
		t.Fatalf("decoded PCM mismatch:\n got %v\nwant %v", out, pcm16(samples...))
	}
}

func TestStreamRewindRepeatsWAV(t *testing.T) {
	samples := []int16{5, 10, 15, 20}
	path := filepath.Join(t.TempDir(), "short.wav")
	writeWAV(t, path, 48000, 1, samples)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	s, err := openStream(f)
	if err != nil {
		t.Fatalf("openStream() error = %v", err)
	}
	first, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("first ReadAll() error = %v", err)
	}
	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind() error = %v", err)
	}
	second, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("second ReadAll() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("rewound pass differs:\nfirst %v\nsecond %v", first, second)
	}
}

func TestOpenStreamRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.xyz")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	if _, err := openStream(f); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("openStream() error = %v, want unsupported format", err)
	}
}

// writeWAV emits a minimal PCM RIFF file.
func writeWAV(t *testing.T, path string, rate, channels int, samples []int16) {
	t.Helper()

	var buf bytes.Buffer
	dataSize := len(samples) * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}
