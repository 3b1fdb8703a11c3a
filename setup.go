package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Domusgpt/vib34d-complete-system/internal/audio"
	"github.com/Domusgpt/vib34d-complete-system/internal/bridge"
	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
	"github.com/Domusgpt/vib34d-complete-system/internal/source"
)

// options holds the parsed command line.
type options struct {
	file      string
	serveAddr string
	headless  bool
	fps       int
	storeKind string
	dbPath    string
	silent    bool
	logPath   string
}

// app wires the engine to its inputs and outputs and owns their shutdown.
type app struct {
	logFile *os.File
	logger  *log.Logger

	engine  *engine.Engine
	store   preset.Store
	sel     *preset.Selection
	pointer *source.Pointer
	pinch   *source.Pinch
	tilt    *source.Tilt
	level   *source.Level

	tap      *audio.Tap
	analyzer *audio.Analyzer
	synth    *audio.Synth
	player   *audio.Player
	track    audio.TrackInfo

	bridge *bridge.Server
}

// buildApp assembles everything the run modes share: the engine with its
// default parameter set, the gesture sources, the audio pipeline feeding
// the band signals, the variation store, and optionally the phone bridge.
// On error the partially built app is already torn down.
func buildApp(opts options) (*app, error) {
	a := &app{}

	a.logger = log.New(io.Discard, "", 0)
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		a.logger = log.New(f, "", log.LstdFlags)
	}

	a.engine = engine.Default(engine.Config{FPS: opts.fps, Log: a.logger})

	store, err := preset.NewStore(opts.storeKind, opts.dbPath)
	if err != nil {
		a.close()
		return nil, err
	}
	if err := store.Init(context.Background()); err != nil {
		a.close()
		return nil, fmt.Errorf("init preset store: %w", err)
	}
	a.store = store
	a.sel = preset.NewSelection()

	if a.pointer, err = source.NewPointer(source.DefaultDampening, source.DefaultEpsilon); err != nil {
		a.close()
		return nil, err
	}
	if a.pinch, err = source.NewPinch(source.DefaultDampening, source.DefaultEpsilon); err != nil {
		a.close()
		return nil, err
	}
	a.tilt = source.NewTilt()
	a.level = source.NewLevel()

	a.tap = audio.NewTap(audio.DefaultTapCapacity)
	if opts.file != "" && !opts.silent {
		if a.player, err = audio.Open(opts.file, a.tap); err != nil {
			a.close()
			return nil, fmt.Errorf("open %s: %w", opts.file, err)
		}
		a.track = audio.ReadTrackInfo(opts.file)
	} else {
		a.synth = audio.NewSynth(a.tap)
		a.synth.Start()
	}

	a.analyzer = audio.NewAnalyzer(a.tap)
	for name, src := range a.analyzer.Sources() {
		if err := a.engine.AttachSource(name, src); err != nil {
			a.close()
			return nil, err
		}
	}
	if err := a.engine.AttachSource(engine.SignalPointer, a.pointer); err != nil {
		a.close()
		return nil, err
	}
	if err := a.engine.AttachSource(engine.SignalPinch, a.pinch); err != nil {
		a.close()
		return nil, err
	}
	if err := a.engine.AttachSource(engine.SignalTilt, a.tilt); err != nil {
		a.close()
		return nil, err
	}
	if err := a.engine.AttachSource(engine.SignalRemoteLevel, a.level); err != nil {
		a.close()
		return nil, err
	}
	a.analyzer.Start()

	if opts.serveAddr != "" {
		srv, err := bridge.NewServer(bridge.Config{
			Engine:    a.engine,
			Store:     a.store,
			Selection: a.sel,
			Pointer:   a.pointer,
			Pinch:     a.pinch,
			Tilt:      a.tilt,
			Level:     a.level,
			FrameRate: opts.fps,
			Log:       a.logger,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.bridge = srv
	}

	return a, nil
}

func (a *app) close() {
	if a.bridge != nil {
		a.bridge.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
	if a.synth != nil {
		a.synth.Close()
	}
	if a.analyzer != nil {
		a.analyzer.Close()
	}
	if a.store != nil {
		if err := preset.CloseStore(a.store); err != nil {
			a.logger.Printf("close preset store: %v", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
