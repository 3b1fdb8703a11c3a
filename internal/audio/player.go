package audio

import (
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player decodes a track, resamples it to the fixed output format, and
// plays it through the audio device while teeing every PCM byte into the
// tap for analysis.
type Player struct {
	file      *os.File
	stream    *resampler
	tee       *tapReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	tap       *Tap
	duration  time.Duration
	volume    float64
	paused    bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the process-wide playback context on first use.
func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Open prepares the track at path for playback into tap and starts playing.
func Open(path string, tap *Tap) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := openStream(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	stream, err := newResampler(src)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, err
	}

	p := &Player{
		file:     f,
		stream:   stream,
		tap:      tap,
		otoCtx:   ctx,
		duration: time.Duration(float64(stream.Length()) / playbackBytesPerSec * float64(time.Second)),
		volume:   0.8,
		done:     make(chan struct{}),
	}
	p.tee = &tapReader{src: stream, tap: tap}

	p.otoPlayer = ctx.NewPlayer(p.tee)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

// monitor polls until the track ends or the player is closed.
func (p *Player) monitor() {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		pos := p.tee.pos.Load()
		total := p.stream.Length()
		paused := p.paused
		done := p.done
		p.mu.Unlock()

		if !paused && pos >= total {
			close(done)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Done returns a channel that closes when the track finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart rewinds to the top and resumes playback, re-arming Done.
func (p *Player) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.stream.Rewind(); err != nil {
		return err
	}
	p.tee.pos.Store(0)

	// Fresh oto player to flush the buffered tail of the old pass.
	p.otoPlayer.Pause()
	p.otoPlayer = p.otoCtx.NewPlayer(p.tee)
	p.otoPlayer.SetVolume(p.volume)

	p.done = make(chan struct{})
	p.paused = false
	p.otoPlayer.Play()

	go p.monitor()
	return nil
}

// TogglePause flips between playing and paused.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.otoPlayer.Play()
	} else {
		p.otoPlayer.Pause()
	}
	p.paused = !p.paused
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns how far playback has read into the track.
func (p *Player) Position() time.Duration {
	secs := float64(p.tee.pos.Load()) / playbackBytesPerSec
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the track length.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Volume returns the current volume in 0 to 1.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// AdjustVolume nudges the volume by delta, clamped to 0 to 1.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := p.volume + delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	p.otoPlayer.SetVolume(v)
}

// Close releases the device player and the file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
	p.file.Close()
}
