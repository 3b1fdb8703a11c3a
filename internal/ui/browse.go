package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
)

type variationItem struct {
	v preset.Variation
}

func (i variationItem) Title() string { return i.v.Name }
func (i variationItem) Description() string {
	return fmt.Sprintf("%s · %s", preset.GeometryName(i.v.Geometry), i.v.UpdatedAt.Format("2006-01-02 15:04"))
}
func (i variationItem) FilterValue() string { return i.v.Name }

func newVariationList(variations []preset.Variation, width, height int) list.Model {
	items := make([]list.Item, 0, len(variations))
	for _, v := range variations {
		items = append(items, variationItem{v: v})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	if width < 20 {
		width = 60
	}
	if height < 5 {
		height = 20
	}
	l := list.New(items, delegate, width, height)
	l.Title = "variations"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	return l
}
