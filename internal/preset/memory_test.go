package preset

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	v := NewVariation("sunset", 3, map[string]float64{"hue": 310, "gridDensity": 22})
	if err := store.SaveVariation(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.GetVariation(ctx, "sunset")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected saved variation")
	}
	if loaded.Geometry != 3 || loaded.Parameters["hue"] != 310 {
		t.Fatalf("unexpected variation: %+v", loaded)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.GetVariation(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected no variation")
	}
}

func TestMemoryStoreListSortsByName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.SaveVariation(ctx, NewVariation(name, 0, nil)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	list, err := store.ListVariations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if list[i].Name != want {
			t.Fatalf("list[%d] = %q, want %q", i, list[i].Name, want)
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveVariation(ctx, NewVariation("gone", 1, nil)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteVariation(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.GetVariation(ctx, "gone"); ok {
		t.Fatal("expected variation to be deleted")
	}

	// Deleting an unknown name is a no-op.
	if err := store.DeleteVariation(ctx, "never"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveVariation(ctx, NewVariation("", 0, nil)); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := store.SaveVariation(ctx, NewVariation("bad", GeometryCount, nil)); err == nil {
		t.Fatal("expected error for geometry out of range")
	}
}

func TestMemoryStoreCopiesParameters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	params := map[string]float64{"hue": 100}
	if err := store.SaveVariation(ctx, NewVariation("iso", 0, params)); err != nil {
		t.Fatalf("save: %v", err)
	}
	params["hue"] = 999

	loaded, _, err := store.GetVariation(ctx, "iso")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Parameters["hue"] != 100 {
		t.Fatalf("stored parameters aliased caller map: %+v", loaded.Parameters)
	}

	loaded.Parameters["hue"] = -1
	again, _, _ := store.GetVariation(ctx, "iso")
	if again.Parameters["hue"] != 100 {
		t.Fatalf("loaded parameters aliased store map: %+v", again.Parameters)
	}
}
