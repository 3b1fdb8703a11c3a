package preset

import "testing"

func TestSelectionClampsRange(t *testing.T) {
	sel := NewSelection()

	sel.SetGeometry(-5)
	if got := sel.Geometry(); got != 0 {
		t.Fatalf("Geometry() = %d, want 0", got)
	}

	sel.SetGeometry(GeometryCount + 3)
	if got := sel.Geometry(); got != GeometryCount-1 {
		t.Fatalf("Geometry() = %d, want %d", got, GeometryCount-1)
	}
}

func TestSelectionCycleWraps(t *testing.T) {
	sel := NewSelection()

	if got := sel.CycleGeometry(1); got != 1 {
		t.Fatalf("cycle forward = %d, want 1", got)
	}
	if got := sel.CycleGeometry(-2); got != GeometryCount-1 {
		t.Fatalf("cycle backward = %d, want %d", got, GeometryCount-1)
	}
	if got := sel.CycleGeometry(1); got != 0 {
		t.Fatalf("cycle wrap = %d, want 0", got)
	}
}
