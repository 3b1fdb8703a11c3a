package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Domusgpt/vib34d-complete-system/internal/ui"
)

func main() {
	opts := parseArgs()

	if opts.file != "" && !opts.silent {
		info, err := os.Stat(opts.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: %s is a directory\n", opts.file)
			os.Exit(1)
		}
	}

	a, err := buildApp(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	if opts.headless {
		runHeadless(a, opts)
		return
	}

	serveErr := make(chan error, 1)
	if a.bridge != nil {
		go func() {
			serveErr <- http.ListenAndServe(opts.serveAddr, a.bridge.Handler())
		}()
	}

	model := ui.New(ui.Config{
		Engine:    a.engine,
		Selection: a.sel,
		Store:     a.store,
		Pointer:   a.pointer,
		Pinch:     a.pinch,
		Player:    a.player,
		Track:     a.track,
		FPS:       opts.fps,
		ServeAddr: opts.serveAddr,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	select {
	case err := <-serveErr:
		fmt.Fprintf(os.Stderr, "Error: bridge: %v\n", err)
		os.Exit(1)
	default:
	}
}

// runHeadless serves the phone bridge with the engine on its internal
// scheduler, no terminal UI attached.
func runHeadless(a *app, opts options) {
	if err := a.engine.Start(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.engine.Stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- http.ListenAndServe(opts.serveAddr, a.bridge.Handler())
	}()
	fmt.Printf("Serving on %s. Ctrl+C to stop.\n", opts.serveAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	case <-sigCh:
	}
}

func parseArgs() options {
	var opts options
	flag.StringVar(&opts.serveAddr, "serve", "", "HTTP listen address for the phone bridge (empty disables it)")
	flag.BoolVar(&opts.headless, "headless", false, "run the bridge without the terminal UI (needs -serve)")
	flag.IntVar(&opts.fps, "fps", 30, "frames per second")
	flag.StringVar(&opts.storeKind, "store", "memory", "variation store backend: memory or sqlite")
	flag.StringVar(&opts.dbPath, "db", "variations.db", "sqlite database path (with -store sqlite)")
	flag.BoolVar(&opts.silent, "silent", false, "skip audio playback and drive the visuals from the built-in signal")
	flag.StringVar(&opts.logPath, "log", "", "append engine warnings to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [audio file]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.file = flag.Arg(0)

	if opts.fps <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -fps must be positive")
		os.Exit(1)
	}
	if opts.headless && opts.serveAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: -headless needs -serve")
		os.Exit(1)
	}
	return opts
}
