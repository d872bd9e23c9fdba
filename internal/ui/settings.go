package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/settings"
	"github.com/atomicstack/tmux-prompt-bar/internal/ui/command"
	uistate "github.com/atomicstack/tmux-prompt-bar/internal/ui/state"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const settingsView = "settings"

type settingsMode int

const (
	modeList settingsMode = iota
	modeShortcut
	modeConfirmReset
)

type settingsLoadedMsg struct {
	err error
}

// settingsOpMsg reports a finished store operation. focusID moves the cursor
// to that entry once the list is refreshed.
type settingsOpMsg struct {
	info    string
	err     error
	focusID string
}

// SettingsModel lists the prompts with a fuzzy filter and edits the list as a
// whole along with the scalar settings.
type SettingsModel struct {
	ctx      context.Context
	ctrl     *settings.Controller
	bus      *command.Bus
	handlers router
	changes  <-chan struct{}
	list     *uistate.List
	mode     settingsMode
	shortcut textinput.Model
	loaded   bool
	busy     bool
	errMsg   string
	infoMsg  string
	width    int
	height   int
	quitting bool
}

// NewSettingsModel builds the settings window. changes delivers a value
// whenever the persisted list may have changed elsewhere; it may be nil.
func NewSettingsModel(ctx context.Context, ctrl *settings.Controller, changes <-chan struct{}, width, height int) *SettingsModel {
	shortcut := textinput.New()
	shortcut.Prompt = "toggle shortcut: "
	shortcut.CharLimit = 32
	m := &SettingsModel{
		ctx:      ctx,
		ctrl:     ctrl,
		bus:      command.New(ctx),
		changes:  changes,
		list:     uistate.NewList("prompts", nil),
		shortcut: shortcut,
		width:    width,
		height:   height,
	}
	m.handlers = router{}
	m.handlers.on(tea.KeyMsg{}, m.handleKeyMsg)
	m.handlers.on(tea.WindowSizeMsg{}, m.handleWindowSizeMsg)
	m.handlers.on(settingsLoadedMsg{}, m.handleLoadedMsg)
	m.handlers.on(settingsOpMsg{}, m.handleOpMsg)
	m.handlers.on(listChangedMsg{}, m.handleListChangedMsg)
	m.handlers.on(changesDoneMsg{}, func(tea.Msg) tea.Cmd { m.changes = nil; return nil })
	return m
}

func (m *SettingsModel) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForChange(m.changes))
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlers.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.mode == modeShortcut {
		var cmd tea.Cmd
		m.shortcut, cmd = m.shortcut.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Quitting reports whether the model asked the program to exit.
func (m *SettingsModel) Quitting() bool {
	return m.quitting
}

func (m *SettingsModel) load() tea.Cmd {
	return m.bus.Execute(command.Request{
		ID:    "load-settings",
		Label: "settings",
		Run: func(ctx context.Context) tea.Msg {
			return settingsLoadedMsg{err: m.ctrl.Load(ctx)}
		},
	})
}

func (m *SettingsModel) handleLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded := msg.(settingsLoadedMsg)
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.loaded = true
	m.syncList("")
	return nil
}

func (m *SettingsModel) handleListChangedMsg(tea.Msg) tea.Cmd {
	refresh := m.bus.Execute(command.Request{
		ID:    "refresh-prompts",
		Label: "prompts",
		Run: func(ctx context.Context) tea.Msg {
			return settingsOpMsg{err: m.ctrl.Refresh(ctx)}
		},
	})
	return tea.Batch(refresh, waitForChange(m.changes))
}

func (m *SettingsModel) handleOpMsg(msg tea.Msg) tea.Cmd {
	op := msg.(settingsOpMsg)
	m.busy = false
	if op.err != nil {
		m.errMsg = op.err.Error()
		events.Action.Error(op.err)
	} else {
		m.errMsg = ""
		if op.info != "" {
			m.infoMsg = op.info
			events.Action.Success(op.info)
		}
	}
	m.syncList(op.focusID)
	return nil
}

// syncList refreshes the rows from the controller, keeping the filter.
func (m *SettingsModel) syncList(focusID string) {
	m.list.UpdateItems(uistate.ItemsFromPrompts(m.ctrl.List()))
	if focusID != "" {
		if m.list.Filter != "" {
			m.list.SetFilter("", 0)
		}
		if idx := m.list.IndexOf(focusID); idx >= 0 {
			m.list.Cursor = idx
		}
	}
	m.list.EnsureCursorVisible(m.maxVisibleRows())
}

func (m *SettingsModel) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.width = size.Width
	m.height = size.Height
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *SettingsModel) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key := msg.(tea.KeyMsg)
	k := key.String()
	events.UI.Key(settingsView, k)
	if k == "ctrl+c" {
		return m.quit()
	}
	switch m.mode {
	case modeConfirmReset:
		m.mode = modeList
		if k == "y" || k == "Y" {
			return m.run("reset", "restored default prompts", func(ctx context.Context) (string, error) {
				return "", m.ctrl.Reset(ctx)
			})
		}
		m.infoMsg = "reset cancelled"
		return nil
	case modeShortcut:
		return m.handleShortcutKey(key)
	}
	if !m.loaded || m.busy {
		if k == "esc" {
			return m.quit()
		}
		return nil
	}
	m.infoMsg = ""
	switch k {
	case "esc":
		if m.list.Filter != "" {
			m.list.SetFilter("", 0)
			events.Filter.Cleared(settingsView)
			return nil
		}
		return m.quit()
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.list.MoveCursorPage(-1, m.maxVisibleRows())
	case "pgdown":
		m.list.MoveCursorPage(1, m.maxVisibleRows())
	case "home":
		m.list.MoveCursorHome()
	case "end":
		m.list.MoveCursorEnd()
	case "tab":
		m.list.ToggleCurrentSelection()
		m.moveCursor(1)
	case "ctrl+o":
		return m.run("add", "added prompt", func(ctx context.Context) (string, error) {
			entry, err := m.ctrl.Add(ctx)
			return entry.ID, err
		})
	case "ctrl+d":
		return m.removeTargets()
	case "ctrl+r":
		m.mode = modeConfirmReset
	case "ctrl+t":
		m.mode = modeShortcut
		m.shortcut.SetValue(m.ctrl.Settings().ToggleShortcut)
		m.shortcut.CursorEnd()
		return m.shortcut.Focus()
	case "ctrl+s":
		submit := !m.ctrl.Settings().SubmitAfterPaste
		info := "submit after paste off"
		if submit {
			info = "submit after paste on"
		}
		return m.run("submit-after-paste", info, func(ctx context.Context) (string, error) {
			return "", m.ctrl.SetSubmitAfterPaste(ctx, submit)
		})
	default:
		m.handleFilterKey(key)
	}
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *SettingsModel) moveCursor(delta int) {
	if m.list.MoveCursor(delta) {
		events.UI.Cursor(settingsView, m.list.Cursor)
	}
}

// handleFilterKey edits the filter text.
func (m *SettingsModel) handleFilterKey(key tea.KeyMsg) {
	changed := false
	switch key.String() {
	case "ctrl+u":
		if m.list.Filter != "" {
			m.list.SetFilter("", 0)
			events.Filter.Cleared(settingsView)
			return
		}
	case "ctrl+w":
		changed = m.list.DeleteFilterWordBackward()
	case "ctrl+a":
		m.list.MoveFilterCursorStart()
	case "ctrl+e":
		m.list.MoveFilterCursorEnd()
	case "left":
		m.list.MoveFilterCursor(-1)
	case "right":
		m.list.MoveFilterCursor(1)
	case "backspace", "ctrl+h":
		changed = m.list.DeleteFilterRuneBackward()
	case " ":
		changed = m.list.InsertFilterText(" ")
	default:
		if key.Type != tea.KeyRunes || key.Alt || len(key.Runes) == 0 {
			return
		}
		for _, r := range key.Runes {
			if unicode.IsControl(r) {
				return
			}
		}
		changed = m.list.InsertFilterText(string(key.Runes))
	}
	if changed {
		events.Filter.Set(settingsView, m.list.Filter, len(m.list.Items))
	}
}

func (m *SettingsModel) handleShortcutKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.mode = modeList
		m.shortcut.Blur()
		return nil
	case "enter":
		m.mode = modeList
		m.shortcut.Blur()
		value := strings.TrimSpace(m.shortcut.Value())
		return m.run("toggle-shortcut", "toggle shortcut is now "+value, func(ctx context.Context) (string, error) {
			return "", m.ctrl.SetToggleShortcut(ctx, value)
		})
	}
	var cmd tea.Cmd
	m.shortcut, cmd = m.shortcut.Update(key)
	return cmd
}

func (m *SettingsModel) removeTargets() tea.Cmd {
	targets := m.list.Targets()
	if len(targets) == 0 {
		return nil
	}
	m.list.ClearSelection()
	info := fmt.Sprintf("removed %q", targets[0].Label)
	if len(targets) > 1 {
		info = fmt.Sprintf("removed %d prompts", len(targets))
	}
	return m.run("remove", info, func(ctx context.Context) (string, error) {
		for _, item := range targets {
			if err := m.ctrl.Remove(ctx, item.ID); err != nil {
				return "", err
			}
		}
		return "", nil
	})
}

// run executes a store operation off the event loop.
func (m *SettingsModel) run(id, info string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	m.busy = true
	m.errMsg = ""
	return m.bus.Execute(command.Request{
		ID:    id,
		Label: info,
		Run: func(ctx context.Context) tea.Msg {
			focus, err := fn(ctx)
			if err != nil {
				return settingsOpMsg{err: err}
			}
			return settingsOpMsg{info: info, focusID: focus}
		},
	})
}

func (m *SettingsModel) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}
