package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Domusgpt/vib34d-complete-system/internal/audio"
	"github.com/Domusgpt/vib34d-complete-system/internal/engine"
	"github.com/Domusgpt/vib34d-complete-system/internal/preset"
	"github.com/Domusgpt/vib34d-complete-system/internal/source"
)

type uiMode int

const (
	modeMain uiMode = iota
	modeNaming
	modeBrowse
)

// Config wires the inputs the TUI needs. Engine, Selection and Store are
// required. Player is optional; without one the visualizer runs on whatever
// sources are attached to the engine. Pointer and Pinch enable mouse control
// when present.
type Config struct {
	Engine    *engine.Engine
	Selection *preset.Selection
	Store     preset.Store
	Pointer   *source.Pointer
	Pinch     *source.Pinch
	Player    *audio.Player
	Track     audio.TrackInfo
	FPS       int
	ServeAddr string
}

// Model is the Bubbletea model for the visualizer TUI. Every tick it advances
// the engine one frame and repaints the lattice and meters from the snapshot.
type Model struct {
	engine    *engine.Engine
	sel       *preset.Selection
	store     preset.Store
	pointer   *source.Pointer
	pinch     *source.Pinch
	player    *audio.Player
	track     audio.TrackInfo
	serveAddr string
	interval  time.Duration

	lattice *lattice
	meters  *meterPanel
	frame   map[string]float64
	initial map[string]float64

	mode     uiMode
	selected int
	input    textinput.Model
	list     list.Model

	width    int
	height   int
	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool

	status     string
	statusErr  bool
	statusTime time.Time

	dragging bool
	lastX    int
	lastY    int
	quitting bool
}

// New creates a new Model. The engine's bases at this point become the
// values the reset key restores.
func New(cfg Config) Model {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 30
	}

	initial := make(map[string]float64)
	for _, id := range cfg.Engine.ParameterIDs() {
		if v, err := cfg.Engine.Base(id); err == nil {
			initial[id] = v
		}
	}

	input := textinput.New()
	input.Placeholder = "variation name"
	input.CharLimit = 48
	input.Width = 32

	m := Model{
		engine:    cfg.Engine,
		sel:       cfg.Selection,
		store:     cfg.Store,
		pointer:   cfg.Pointer,
		pinch:     cfg.Pinch,
		player:    cfg.Player,
		track:     cfg.Track,
		serveAddr: cfg.ServeAddr,
		interval:  time.Second / time.Duration(fps),
		lattice:   newLattice(fps),
		meters:    newMeterPanel(cfg.Engine),
		frame:     cfg.Engine.Snapshot(),
		initial:   initial,
		input:     input,
		list:      newVariationList(nil, 0, 0),
	}
	if cfg.Player != nil {
		m.duration = cfg.Player.Duration()
		m.volume = cfg.Player.Volume()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.interval), tea.SetWindowTitle(windowTitle(m.track.Title))}
	if m.player != nil {
		cmds = append(cmds, checkDone(m.player))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeNaming:
			return m.handleNamingKey(msg)
		case modeBrowse:
			return m.handleBrowseKey(msg)
		default:
			return m.handleMainKey(msg)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case playbackEndedMsg:
		if m.player == nil {
			return m, nil
		}
		if err := m.player.Restart(); err != nil {
			return m.setError(fmt.Sprintf("restart: %v", err)), nil
		}
		m.elapsed = 0
		return m, checkDone(m.player)

	case savedMsg:
		if msg.err != nil {
			return m.setError(fmt.Sprintf("save %s: %v", msg.name, msg.err)), nil
		}
		return m.setStatus(fmt.Sprintf("saved %s", msg.name)), nil

	case variationsMsg:
		if msg.err != nil {
			m.mode = modeMain
			return m.setError(fmt.Sprintf("list variations: %v", msg.err)), nil
		}
		m.list = newVariationList(msg.items, m.width-4, m.bodyHeight())
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			return m.setError(fmt.Sprintf("load: %v", msg.err)), nil
		}
		if !msg.ok {
			return m.setError("variation not found"), nil
		}
		m.applyVariation(msg.v)
		m.mode = modeMain
		return m.setStatus(fmt.Sprintf("loaded %s", msg.v.Name)), nil

	case deletedMsg:
		if msg.err != nil {
			return m.setError(fmt.Sprintf("delete %s: %v", msg.name, msg.err)), nil
		}
		m = m.setStatus(fmt.Sprintf("deleted %s", msg.name))
		return m, listCmd(m.store)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(msg.Width - 4)
		m.list.SetHeight(m.bodyHeight())
		return m, nil
	}

	return m, nil
}

func (m Model) handleMainKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		return m.quit()
	}
	switch msg.String() {
	case " ":
		if m.player != nil {
			m.player.TogglePause()
			m.paused = m.player.Paused()
		}
	case "tab":
		m.sel.CycleGeometry(1)
	case "shift+tab":
		m.sel.CycleGeometry(-1)
	case "j", "down":
		if n := m.meters.count(); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "k", "up":
		if n := m.meters.count(); n > 0 {
			m.selected = (m.selected + n - 1) % n
		}
	case "h", "left":
		m.nudge(-1)
	case "l", "right":
		m.nudge(1)
	case "H":
		m.nudge(-5)
	case "L":
		m.nudge(5)
	case "o":
		m.engine.SetBreathing(!m.engine.Breathing())
	case "r":
		m.randomize()
		return m.setStatus("randomized"), nil
	case "x":
		if err := m.engine.SetBases(m.initial); err != nil {
			return m.setError(fmt.Sprintf("reset: %v", err)), nil
		}
		return m.setStatus("reset to defaults"), nil
	case "s":
		m.mode = modeNaming
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink
	case "b":
		m.mode = modeBrowse
		return m, listCmd(m.store)
	case "+", "=":
		if m.player != nil {
			m.player.AdjustVolume(0.05)
			m.volume = m.player.Volume()
		}
	case "-":
		if m.player != nil {
			m.player.AdjustVolume(-0.05)
			m.volume = m.player.Volume()
		}
	}
	return m, nil
}

func (m Model) handleNamingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			return m.setError("variation needs a name"), nil
		}
		bases := make(map[string]float64)
		for _, id := range m.engine.ParameterIDs() {
			if v, err := m.engine.Base(id); err == nil {
				bases[id] = v
			}
		}
		v := preset.NewVariation(name, m.sel.Geometry(), bases)
		m.mode = modeMain
		m.input.Blur()
		return m, saveCmd(m.store, v)
	case "esc", "ctrl+c":
		m.mode = modeMain
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		if item, ok := m.list.SelectedItem().(variationItem); ok {
			return m, loadCmd(m.store, item.v.Name)
		}
		return m, nil
	case "d":
		if item, ok := m.list.SelectedItem().(variationItem); ok {
			return m, deleteCmd(m.store, item.v.Name)
		}
		return m, nil
	case "esc", "q":
		m.mode = modeMain
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.mode != modeMain {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.pinch != nil {
			m.pinch.Scale(0.08)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.pinch != nil {
			m.pinch.Scale(-0.08)
		}
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if m.dragging && m.pointer != nil {
			// Cells are roughly twice as tall as they are wide, so vertical
			// motion is weighted heavier to feel uniform.
			m.pointer.Drag(float64(msg.X-m.lastX)*2, float64(msg.Y-m.lastY)*4)
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			if m.pointer != nil {
				m.pointer.Release()
			}
		}
	}
	return m, nil
}

func (m Model) handleTick(now time.Time) (Model, tea.Cmd) {
	m.frame = m.engine.Tick(now)
	m.lattice.update(m.frame, m.sel.Geometry(), now, m.latticeWidth(), m.latticeHeight())

	if m.player != nil {
		m.elapsed = m.player.Position()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()
	}
	if m.status != "" && time.Since(m.statusTime) > 4*time.Second {
		m.status = ""
	}
	return m, tickCmd(m.interval)
}

func (m Model) nudge(steps float64) {
	id := m.meters.id(m.selected)
	if id == "" {
		return
	}
	info, err := m.engine.Info(id)
	if err != nil {
		return
	}
	step := (info.Max - info.Min) / 40
	m.engine.AdjustBase(id, steps*step)
}

func (m Model) randomize() {
	values := make(map[string]float64)
	for _, id := range m.engine.ParameterIDs() {
		info, err := m.engine.Info(id)
		if err != nil {
			continue
		}
		values[id] = info.Min + rand.Float64()*(info.Max-info.Min)
	}
	m.engine.SetBases(values)
}

// applyVariation restores bases and geometry from a stored variation. Ids
// persisted under an older registry are skipped so old saves still load.
func (m Model) applyVariation(v preset.Variation) {
	known := make(map[string]float64, len(v.Parameters))
	for _, id := range m.engine.ParameterIDs() {
		if val, ok := v.Parameters[id]; ok {
			known[id] = val
		}
	}
	m.engine.SetBases(known)
	m.sel.SetGeometry(v.Geometry)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	if m.player != nil {
		m.player.Close()
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) setStatus(s string) Model {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
	return m
}

func (m Model) setError(s string) Model {
	m.status = s
	m.statusErr = true
	m.statusTime = time.Now()
	return m
}

func (m Model) latticeWidth() int {
	if m.width <= 0 {
		return 72
	}
	return m.width
}

func (m Model) latticeHeight() int {
	chrome := m.meters.rows(m.latticeWidth()) + 6
	if m.player != nil {
		chrome++
	}
	h := m.height - chrome
	if h < 4 {
		h = 4
	}
	return h
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeBrowse {
		return m.browseView()
	}
	return m.mainView()
}

func (m Model) mainView() string {
	var b strings.Builder
	b.WriteString("  " + m.headerLine() + "\n")
	if m.player != nil {
		b.WriteString("  " + m.trackLine() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.lattice.view())
	b.WriteString("\n\n")
	b.WriteString(m.meters.render(m.frame, m.selected, m.latticeWidth()))
	b.WriteString("\n\n")
	b.WriteString("  " + m.footerLine() + "\n")
	return b.String()
}

func (m Model) browseView() string {
	help := helpStyle.Render("enter load  d delete  / filter  esc back")
	return "\n" + m.list.View() + "\n  " + help + "\n"
}

func (m Model) headerLine() string {
	parts := []string{
		headerStyle.Render("vib34d"),
		titleStyle.Render(preset.GeometryName(m.sel.Geometry())),
	}
	if m.engine.Breathing() {
		parts = append(parts, statusStyle.Render("breathing"))
	}
	if m.serveAddr != "" {
		parts = append(parts, statusStyle.Render("serving "+m.serveAddr))
	}
	return strings.Join(parts, "  ")
}

func (m Model) trackLine() string {
	name := m.track.Title
	if m.track.Artist != "" {
		name = m.track.Artist + " - " + name
	}
	icon := "▶"
	if m.paused {
		icon = "❚❚"
	}
	pos := fmt.Sprintf("%s/%s", formatDuration(m.elapsed), formatDuration(m.duration))
	vol := fmt.Sprintf("vol %d%%", int(m.volume*100+0.5))
	return trackStyle.Render(fmt.Sprintf("%s %s  %s  %s", icon, name, pos, vol))
}

func (m Model) footerLine() string {
	if m.mode == modeNaming {
		return titleStyle.Render("save as ") + m.input.View()
	}
	if m.status != "" {
		if m.statusErr {
			return errorStyle.Render(m.status)
		}
		return statusStyle.Render(m.status)
	}
	return helpStyle.Render(helpText(m.player != nil))
}

func windowTitle(track string) string {
	if track == "" {
		return "vib34d"
	}
	return track + " — vib34d"
}
