package engine

import (
	"sync"
	"testing"
)

func TestCellPullBeforePush(t *testing.T) {
	c := NewCell()
	if _, ok := c.Pull(); ok {
		t.Fatal("Pull() on an empty cell reported a sample")
	}
}

func TestCellPullIsSticky(t *testing.T) {
	c := NewCell()
	c.Push(Sample{Intensity: 0.7})
	for range 3 {
		s, ok := c.Pull()
		if !ok {
			t.Fatal("Pull() lost the sample")
		}
		if s.Intensity != 0.7 {
			t.Fatalf("Pull() intensity = %v, want 0.7", s.Intensity)
		}
	}
}

func TestCellPushReplaces(t *testing.T) {
	c := NewCell()
	c.Push(Sample{Intensity: 0.1})
	c.Push(Sample{Intensity: 0.9})
	s, ok := c.Pull()
	if !ok {
		t.Fatal("Pull() reported no sample")
	}
	if s.Intensity != 0.9 {
		t.Fatalf("Pull() intensity = %v, want the latest 0.9", s.Intensity)
	}
}

func TestCellTakeClears(t *testing.T) {
	c := NewCell()
	c.Push(Sample{Intensity: 0.4})
	if _, ok := c.Take(); !ok {
		t.Fatal("Take() reported no sample")
	}
	if _, ok := c.Take(); ok {
		t.Fatal("second Take() reported a stale sample")
	}
	if _, ok := c.Pull(); ok {
		t.Fatal("Pull() after Take() reported a stale sample")
	}
}

func TestCellConcurrentPush(t *testing.T) {
	c := NewCell()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				c.Push(Sample{Intensity: float64(i*100 + j)})
			}
		}()
	}
	wg.Wait()
	if _, ok := c.Pull(); !ok {
		t.Fatal("Pull() after concurrent pushes reported no sample")
	}
}
