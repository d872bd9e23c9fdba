package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atomicstack/tmux-prompt-bar/internal/bar"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

const barView = "bar"

// BarOptions configures the bar window.
type BarOptions struct {
	Width      int
	Height     int
	ShowFooter bool
}

// BarModel renders the prompt slots and turns keys and clicks into
// controller actions.
type BarModel struct {
	ctx        context.Context
	ctrl       *bar.Controller
	bus        *command.Bus
	zones      *zone.Manager
	handlers   router
	cursor     int
	width      int
	height     int
	fixedSize  bool
	showFooter bool
	errMsg     string
	infoMsg    string
	quitting   bool
}

// NewBarModel builds the bar around a mounted controller.
func NewBarModel(ctx context.Context, ctrl *bar.Controller, opts BarOptions) *BarModel {
	m := &BarModel{
		ctx:        ctx,
		ctrl:       ctrl,
		bus:        command.New(ctx),
		zones:      zone.New(),
		width:      opts.Width,
		height:     opts.Height,
		fixedSize:  opts.Width > 0 && opts.Height > 0,
		showFooter: opts.ShowFooter,
	}
	m.handlers = router{}
	m.handlers.on(tea.KeyMsg{}, m.handleKeyMsg)
	m.handlers.on(tea.MouseMsg{}, m.handleMouseMsg)
	m.handlers.on(tea.WindowSizeMsg{}, m.handleWindowSizeMsg)
	m.handlers.on(noticeMsg{}, m.handleNoticeMsg)
	m.handlers.on(noticesDoneMsg{}, func(tea.Msg) tea.Cmd { return m.quit() })
	m.handlers.on(windowOpenedMsg{}, m.handleWindowOpenedMsg)
	return m
}

func (m *BarModel) Init() tea.Cmd {
	return waitForNotice(m.ctrl.Notices())
}

func (m *BarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.handlers.dispatch(msg)
}

// Quitting reports whether the model asked the program to exit.
func (m *BarModel) Quitting() bool {
	return m.quitting
}

// Close releases the zone tracker.
func (m *BarModel) Close() {
	m.zones.Close()
}

func (m *BarModel) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *BarModel) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if !m.fixedSize {
		m.width = size.Width
		m.height = size.Height
	}
	return nil
}

func (m *BarModel) handleNoticeMsg(msg tea.Msg) tea.Cmd {
	n := msg.(noticeMsg).notice
	switch n.Kind {
	case bar.ToggleRequested:
		events.Action.Toggle(true)
		return m.quit()
	case bar.HotkeyIgnored:
		m.infoMsg = fmt.Sprintf("no prompt in slot %d", n.Index+1)
	case bar.ListChanged:
		m.clampCursor()
		if err := m.ctrl.LoadError(); err != nil {
			m.errMsg = fmt.Sprintf("could not reload prompts: %v", err)
		} else {
			m.errMsg = ""
		}
	}
	return waitForNotice(m.ctrl.Notices())
}

func (m *BarModel) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key := msg.(tea.KeyMsg)
	k := key.String()
	events.UI.Key(barView, k)
	m.infoMsg = ""
	switch k {
	case "ctrl+c", "q", "esc":
		return m.quit()
	case "left", "h", "shift+tab":
		m.moveCursor(-1)
	case "right", "l", "tab":
		m.moveCursor(1)
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.ctrl.Slots()) - 1
		m.clampCursor()
	case "enter", " ":
		m.deliver(m.cursor)
	case "c", "y":
		if !m.ctrl.Copy(m.ctx, m.cursor) {
			m.infoMsg = "nothing to copy"
		}
	case "e":
		return m.openEditor(m.cursor)
	case "s", ",":
		return m.openSettings()
	case "r":
		if err := m.ctrl.Rehydrate(m.ctx); err != nil {
			m.errMsg = fmt.Sprintf("could not reload prompts: %v", err)
		}
	default:
		if idx, ok := slotKey(k); ok {
			m.cursor = idx
			m.clampCursor()
			m.deliver(idx)
		}
	}
	return nil
}

// slotKey maps "1".."9" and "alt+1".."alt+9" to zero-based slots.
func slotKey(k string) (int, bool) {
	if len(k) == 5 && k[:4] == "alt+" {
		k = k[4:]
	}
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return 0, false
	}
	n, _ := strconv.Atoi(k)
	return n - 1, true
}

func (m *BarModel) deliver(idx int) {
	if !m.ctrl.Deliver(m.ctx, idx) {
		m.infoMsg = fmt.Sprintf("no prompt in slot %d", idx+1)
	}
}

func (m *BarModel) moveCursor(delta int) {
	n := len(m.ctrl.Slots())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	events.UI.Cursor(barView, m.cursor)
}

func (m *BarModel) clampCursor() {
	n := len(m.ctrl.Slots())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *BarModel) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse := msg.(tea.MouseMsg)
	if mouse.Action != tea.MouseActionPress {
		return nil
	}
	idx, ok := m.slotAt(mouse)
	if !ok {
		return nil
	}
	events.UI.Mouse(barView, mouse.Button.String(), idx)
	m.cursor = idx
	switch mouse.Button {
	case tea.MouseButtonLeft:
		m.deliver(idx)
	case tea.MouseButtonRight:
		return m.openEditor(idx)
	case tea.MouseButtonMiddle:
		m.ctrl.Copy(m.ctx, idx)
	}
	return nil
}

func (m *BarModel) slotAt(mouse tea.MouseMsg) (int, bool) {
	for i := range m.ctrl.Slots() {
		if info := m.zones.Get(slotZoneID(i)); info != nil && info.InBounds(mouse) {
			return i, true
		}
	}
	return 0, false
}

// slotRect is the slot's rectangle within the bar, or nil when the slot has
// not been drawn yet.
func (m *BarModel) slotRect(idx int) *placement.Rect {
	info := m.zones.Get(slotZoneID(idx))
	if info == nil || info.IsZero() {
		return nil
	}
	return &placement.Rect{
		Left:   float64(info.StartX),
		Top:    float64(info.StartY),
		Width:  float64(info.EndX - info.StartX + 1),
		Height: float64(info.EndY - info.StartY + 1),
	}
}

type windowOpenedMsg struct {
	label string
	err   error
}

func (m *BarModel) handleWindowOpenedMsg(msg tea.Msg) tea.Cmd {
	opened := msg.(windowOpenedMsg)
	if opened.err != nil {
		m.errMsg = fmt.Sprintf("could not open %s: %v", opened.label, opened.err)
	}
	return nil
}

func (m *BarModel) openEditor(idx int) tea.Cmd {
	if _, ok := m.ctrl.List().At(idx); !ok {
		m.infoMsg = fmt.Sprintf("no prompt in slot %d", idx+1)
		return nil
	}
	trigger := m.slotRect(idx)
	label := fmt.Sprintf("editor %d", idx+1)
	return m.bus.Execute(command.Request{
		ID:    "open-editor",
		Label: label,
		Run: func(ctx context.Context) tea.Msg {
			_, err := m.ctrl.OpenEditor(ctx, idx, trigger)
			return windowOpenedMsg{label: label, err: err}
		},
	})
}

func (m *BarModel) openSettings() tea.Cmd {
	return m.bus.Execute(command.Request{
		ID:    "open-settings",
		Label: "settings",
		Run: func(ctx context.Context) tea.Msg {
			_, err := m.ctrl.OpenSettings(ctx)
			return windowOpenedMsg{label: "settings", err: err}
		},
	})
}

func slotZoneID(idx int) string {
	return "slot-" + strconv.Itoa(idx)
}

// slotLabel is what a slot shows before truncation.
func slotLabel(idx int, e prompt.Entry) string {
	title := e.Title
	if title == "" {
		title = "untitled"
	}
	return strconv.Itoa(idx+1) + " " + title
}
