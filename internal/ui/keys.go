package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(hasPlayer bool) string {
	s := "j/k param  h/l nudge  tab geometry  o breathe  r random  s save  b browse"
	if hasPlayer {
		s += "  space pause  +/- volume"
	}
	s += "  q quit"
	return s
}
