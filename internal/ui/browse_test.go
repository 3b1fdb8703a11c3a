package ui

import (
	"strings"
	"testing"

	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
)

func TestVariationItemFields(t *testing.T) {
	v := preset.NewVariation("sunset", 4, nil)
	item := variationItem{v: v}

	if item.Title() != "sunset" {
		t.Fatalf("expected title sunset, got %q", item.Title())
	}
	if item.FilterValue() != "sunset" {
		t.Fatalf("expected filter value sunset, got %q", item.FilterValue())
	}
	if !strings.Contains(item.Description(), "klein bottle") {
		t.Fatalf("expected geometry name in description, got %q", item.Description())
	}
}

func TestNewVariationListHoldsItems(t *testing.T) {
	items := []preset.Variation{
		preset.NewVariation("a", 0, nil),
		preset.NewVariation("b", 1, nil),
	}
	l := newVariationList(items, 60, 20)
	if got := len(l.Items()); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
	if l.Title != "variations" {
		t.Fatalf("expected list title, got %q", l.Title)
	}
}
