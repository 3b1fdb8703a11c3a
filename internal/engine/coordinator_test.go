package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartDeliversFrames(t *testing.T) {
	e := Default(Config{FPS: 120})
	frames := make(chan map[string]float64, 8)
	err := e.Start(func(_ time.Time, snap map[string]float64) {
		select {
		case frames <- snap:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()

	select {
	case snap := <-frames:
		if _, ok := snap["hue"]; !ok {
			t.Fatal("frame snapshot missing hue")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered within 2s")
	}
}

func TestStartTwice(t *testing.T) {
	e := New(Config{FPS: 120})
	if err := e.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.Stop()
	if err := e.Start(nil); !errors.Is(err, ErrRunning) {
		t.Fatalf("second Start() error = %v, want ErrRunning", err)
	}
}

func TestStopHaltsFrames(t *testing.T) {
	e := New(Config{FPS: 200})
	var count atomic.Int64
	if err := e.Start(func(time.Time, map[string]float64) { count.Add(1) }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no frames delivered before Stop")
		}
		time.Sleep(5 * time.Millisecond)
	}

	e.Stop()
	after := count.Load()
	time.Sleep(50 * time.Millisecond)
	if got := count.Load(); got != after {
		t.Fatalf("%d frames delivered after Stop() returned", got-after)
	}
}

func TestStopIdempotentAndRestartable(t *testing.T) {
	e := New(Config{FPS: 120})
	if err := e.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	e.Stop()
	e.Stop()
	if err := e.Start(nil); err != nil {
		t.Fatalf("Start() after Stop() error = %v", err)
	}
	e.Stop()
}
