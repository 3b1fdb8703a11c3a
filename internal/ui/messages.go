package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Domusgpt/vib34d-complete-system/internal/audio"
	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
)

type tickMsg time.Time

type playbackEndedMsg struct{}

type savedMsg struct {
	name string
	err  error
}

type variationsMsg struct {
	items []preset.Variation
	err   error
}

type loadedMsg struct {
	v   preset.Variation
	ok  bool
	err error
}

type deletedMsg struct {
	name string
	err  error
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkDone(p *audio.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func saveCmd(store preset.Store, v preset.Variation) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{name: v.Name, err: store.SaveVariation(context.Background(), v)}
	}
}

func listCmd(store preset.Store) tea.Cmd {
	return func() tea.Msg {
		items, err := store.ListVariations(context.Background())
		return variationsMsg{items: items, err: err}
	}
}

func loadCmd(store preset.Store, name string) tea.Cmd {
	return func() tea.Msg {
		v, ok, err := store.GetVariation(context.Background(), name)
		return loadedMsg{v: v, ok: ok, err: err}
	}
}

func deleteCmd(store preset.Store, name string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{name: name, err: store.DeleteVariation(context.Background(), name)}
	}
}
