// Package tui is a terminal skin-swap demo. It drives the engine one Step per frame, waits for
// the spawned skeleton to become ready, then lets the user equip attachments from the equipment
// manifest and cycle skins.
package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Carmen-Shannon/oxy-spine/engine"
	"github.com/Carmen-Shannon/oxy-spine/engine/controller"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"
	"github.com/Carmen-Shannon/oxy-spine/internal/equipment"
)

const defaultFrameInterval = time.Second / 30

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// frameMsg advances the engine by one Step.
type frameMsg time.Time

// AppOption customizes App construction.
type AppOption func(*App)

// WithFrameInterval sets how often the engine is stepped.
func WithFrameInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// App is the bubbletea model for the skin-swap demo.
type App struct {
	eng      engine.Engine
	entity   controller.Entity
	manifest equipment.Manifest

	keys     keyMap
	help     help.Model
	interval time.Duration
	last     time.Time

	ready    bool
	skins    []string
	skinIdx  int
	cursor   int
	selected map[string]int // group -> button index
	status   string
	err      error
}

// NewApp creates the demo model for an entity already spawned on eng.
func NewApp(eng engine.Engine, entity controller.Entity, manifest equipment.Manifest, opts ...AppOption) *App {
	a := &App{
		eng:      eng,
		entity:   entity,
		manifest: manifest,
		keys:     defaultKeyMap(),
		help:     help.New(),
		interval: defaultFrameInterval,
		selected: make(map[string]int),
		status:   "loading skeleton...",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) frame() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.frame()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		a.step(time.Time(msg))
		return a, a.frame()
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) step(now time.Time) {
	var dt float32
	if !a.last.IsZero() {
		dt = float32(now.Sub(a.last).Seconds())
	}
	a.last = now

	res := a.eng.Step(dt)
	if a.ready || a.err != nil {
		return
	}
	for _, ev := range res.Ready {
		if ev.Entity == a.entity {
			a.onReady()
			return
		}
	}
	if st, err := a.eng.Spawner().State(a.entity); st == controller.EntityFailed {
		a.err = err
		a.status = ""
	}
}

func (a *App) onReady() {
	c, ok := a.eng.Spawner().Controller(a.entity)
	if !ok {
		return
	}
	a.ready = true
	a.skins = a.skins[:0]
	for _, skin := range c.Skeleton.Data().Skins() {
		a.skins = append(a.skins, skin.Name())
	}
	a.skinIdx = max(0, slices.Index(a.skins, c.SkinName()))
	a.status = "ready"
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.manifest.Buttons)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Equip):
		a.equip(a.cursor)
	case key.Matches(msg, a.keys.Skin):
		a.nextSkin()
	}
	return a, nil
}

func (a *App) equip(i int) {
	c, ok := a.eng.Spawner().Controller(a.entity)
	if !ok || i < 0 || i >= len(a.manifest.Buttons) {
		return
	}
	b := a.manifest.Buttons[i]
	var err error
	for _, name := range b.Candidates() {
		if err = c.Equip(b.Slot, name); err == nil || !errors.Is(err, spine.ErrAttachmentNotFound) {
			break
		}
	}
	if err != nil {
		a.status = errorStyle.Render(err.Error())
		return
	}
	a.selected[b.Group] = i
	a.status = fmt.Sprintf("equipped %s", b.Label)
}

func (a *App) nextSkin() {
	c, ok := a.eng.Spawner().Controller(a.entity)
	if !ok || len(a.skins) == 0 {
		return
	}
	next := (a.skinIdx + 1) % len(a.skins)
	if err := c.SetSkin(a.skins[next]); err != nil {
		a.status = errorStyle.Render(err.Error())
		return
	}
	c.Skeleton.SetSlotsToSetupPose()
	a.skinIdx = next
	clear(a.selected)
	a.status = fmt.Sprintf("skin %s", a.skins[next])
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("oxy-spine skins"))
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(errorStyle.Render("skeleton failed: " + a.err.Error()))
		b.WriteString("\n")
		b.WriteString(a.help.View(a.keys))
		return b.String()
	}

	if a.ready {
		b.WriteString(fmt.Sprintf("skin: %s\n", a.skins[a.skinIdx]))
	}

	group := ""
	for i, btn := range a.manifest.Buttons {
		if btn.Group != group {
			group = btn.Group
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}
		cursor := "  "
		if i == a.cursor {
			cursor = cursorStyle.Render("> ")
		}
		label := btn.Label
		if sel, ok := a.selected[btn.Group]; ok && sel == i {
			label = selectedStyle.Render(label + " *")
		}
		b.WriteString(cursor + label + "\n")
	}

	if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status) + "\n")
	}
	b.WriteString("\n" + a.help.View(a.keys))
	return b.String()
}

// Selected returns the button index chosen for group.
func (a *App) Selected(group string) (int, bool) {
	i, ok := a.selected[group]
	return i, ok
}
