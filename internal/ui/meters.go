package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
)

const meterLabelWidth = 11

// meterPanel renders a bar per parameter so the smoothed values can be read
// at a glance. Bars show the live value inside the parameter's bounds; the
// selected row is the one h/l nudges.
type meterPanel struct {
	bar  progress.Model
	ids  []string
	info map[string]engine.ParameterInfo
}

func newMeterPanel(eng *engine.Engine) *meterPanel {
	bar := progress.New(
		progress.WithScaledGradient("#5F5FFF", "#D75FFF"),
		progress.WithoutPercentage(),
	)

	ids := eng.ParameterIDs()
	info := make(map[string]engine.ParameterInfo, len(ids))
	for _, id := range ids {
		if pi, err := eng.Info(id); err == nil {
			info[id] = pi
		}
	}
	return &meterPanel{bar: bar, ids: ids, info: info}
}

func (m *meterPanel) count() int {
	return len(m.ids)
}

func (m *meterPanel) id(i int) string {
	if i < 0 || i >= len(m.ids) {
		return ""
	}
	return m.ids[i]
}

// rows reports how many terminal lines render will produce at this width.
func (m *meterPanel) rows(width int) int {
	cols := m.columns(width)
	return (len(m.ids) + cols - 1) / cols
}

func (m *meterPanel) columns(width int) int {
	if width >= 76 {
		return 2
	}
	return 1
}

func (m *meterPanel) render(values map[string]float64, selected, width int) string {
	cols := m.columns(width)
	rows := (len(m.ids) + cols - 1) / cols

	colWidth := (width - 2) / cols
	barWidth := colWidth - meterLabelWidth - 12
	if barWidth < 6 {
		barWidth = 6
	}
	if barWidth > 34 {
		barWidth = 34
	}
	bar := m.bar
	bar.Width = barWidth

	var out strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			i := col*rows + row
			if i >= len(m.ids) {
				continue
			}
			if col > 0 {
				out.WriteString("  ")
			}
			out.WriteString(m.renderOne(values, i, i == selected, bar))
		}
	}
	return out.String()
}

func (m *meterPanel) renderOne(values map[string]float64, i int, selected bool, bar progress.Model) string {
	id := m.ids[i]
	info := m.info[id]

	v := values[id]
	ratio := 0.0
	if span := info.Max - info.Min; span > 0 {
		ratio = clamp01((v - info.Min) / span)
	}

	marker := "  "
	label := fmt.Sprintf("%-*s", meterLabelWidth, id)
	if selected {
		marker = selectedStyle.Render("▸ ")
		label = selectedStyle.Render(label)
	} else {
		label = statusStyle.Render(label)
	}

	return fmt.Sprintf("%s%s %s %s", marker, label, bar.ViewAs(ratio), valueStyle.Render(fmt.Sprintf("%7.2f", v)))
}
