package ui

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestLatticeOutputDimensions(t *testing.T) {
	l := newLattice(30)
	l.profile = colorNone

	l.update(nil, 1, time.Now(), 40, 6)
	lines := strings.Split(l.view(), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := utf8.RuneCountInString(line); got != 40 {
			t.Fatalf("row %d: expected 40 cells, got %d", i, got)
		}
	}
}

func TestLatticeTooSmallProducesNoOutput(t *testing.T) {
	l := newLattice(30)
	l.update(nil, 0, time.Now(), 4, 1)
	if l.view() != "" {
		t.Fatalf("expected empty output, got %q", l.view())
	}
}

func TestLatticeRebuildsPointsOnGeometryChange(t *testing.T) {
	l := newLattice(30)
	l.profile = colorNone
	now := time.Now()

	l.update(nil, 1, now, 40, 6)
	if l.geometry != 1 {
		t.Fatalf("expected geometry 1, got %d", l.geometry)
	}
	hyper := len(l.points)

	l.update(nil, 0, now.Add(33*time.Millisecond), 40, 6)
	if l.geometry != 0 {
		t.Fatalf("expected geometry 0, got %d", l.geometry)
	}
	if len(l.points) >= hyper {
		t.Fatalf("expected the corner wedge to drop points, got %d >= %d", len(l.points), hyper)
	}
}

func TestLatticeGridFollowsDensity(t *testing.T) {
	l := newLattice(30)
	l.profile = colorNone
	now := time.Now()

	l.update(map[string]float64{"gridDensity": 4}, 1, now, 40, 6)
	if l.grid != 2 {
		t.Fatalf("expected grid 2 at low density, got %d", l.grid)
	}

	l.update(map[string]float64{"gridDensity": 100}, 1, now.Add(33*time.Millisecond), 40, 6)
	if l.grid != 5 {
		t.Fatalf("expected grid 5 at max density, got %d", l.grid)
	}
}

func TestLatticeBrightensOverFrames(t *testing.T) {
	l := newLattice(30)
	l.profile = colorNone
	now := time.Now()

	for i := 0; i < 45; i++ {
		l.update(nil, 1, now.Add(time.Duration(i)*33*time.Millisecond), 40, 6)
	}
	if !strings.ContainsAny(l.view(), "·∙•●✦◉█") {
		t.Fatal("expected lit cells after spring warmup")
	}
}

func TestBuildLatticePointsAllGeometries(t *testing.T) {
	for g := 0; g < 8; g++ {
		pts := buildLatticePoints(g, 3)
		if len(pts) == 0 {
			t.Fatalf("geometry %d: expected points", g)
		}
		if len(pts) > 81 {
			t.Fatalf("geometry %d: expected at most 81 points, got %d", g, len(pts))
		}
	}
}

func TestRotate4PreservesNorm(t *testing.T) {
	p := [4]float64{0.5, -0.3, 0.8, 0.2}
	before := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	rotate4(&p, 0, 3, 1.234)
	after := p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + p[3]*p[3]
	if math.Abs(before-after) > 1e-12 {
		t.Fatalf("expected rotation to preserve norm, got %v then %v", before, after)
	}
}

func TestParamOrFallsBack(t *testing.T) {
	values := map[string]float64{"hue": 42}
	if got := paramOr(values, "hue", 200); got != 42 {
		t.Fatalf("expected stored value 42, got %v", got)
	}
	if got := paramOr(values, "missing", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %v", got)
	}
	if got := paramOr(nil, "hue", 200); got != 200 {
		t.Fatalf("expected fallback 200 for nil map, got %v", got)
	}
}
