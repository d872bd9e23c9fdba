package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-prompt-bar/internal/editor"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/ui/command"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	editorView   = "editor"
	editorFooter = "ctrl+s save  tab switch field  esc cancel"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldContent
)

type editorLoadedMsg struct {
	entry prompt.Entry
	err   error
}

type editorSavedMsg struct {
	err error
}

// EditorModel edits the title and content of one entry.
type EditorModel struct {
	ctx      context.Context
	ctrl     *editor.Controller
	bus      *command.Bus
	handlers router
	title    textinput.Model
	content  textarea.Model
	focus    editorField
	loaded   bool
	fatal    bool
	saving   bool
	errMsg   string
	width    int
	height   int
	quitting bool
}

func NewEditorModel(ctx context.Context, ctrl *editor.Controller, width, height int) *EditorModel {
	title := textinput.New()
	title.Placeholder = prompt.NewTitle
	title.Prompt = ""
	title.CharLimit = 80
	content := textarea.New()
	content.Placeholder = prompt.NewContent
	content.ShowLineNumbers = false
	content.CharLimit = 0
	m := &EditorModel{
		ctx:     ctx,
		ctrl:    ctrl,
		bus:     command.New(ctx),
		title:   title,
		content: content,
	}
	m.resize(width, height)
	m.handlers = router{}
	m.handlers.on(tea.KeyMsg{}, m.handleKeyMsg)
	m.handlers.on(tea.WindowSizeMsg{}, m.handleWindowSizeMsg)
	m.handlers.on(editorLoadedMsg{}, m.handleLoadedMsg)
	m.handlers.on(editorSavedMsg{}, m.handleSavedMsg)
	return m
}

func (m *EditorModel) Init() tea.Cmd {
	return tea.Batch(m.load(), textinput.Blink)
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlers.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.updateField(msg)
}

// Quitting reports whether the model asked the program to exit.
func (m *EditorModel) Quitting() bool {
	return m.quitting
}

func (m *EditorModel) load() tea.Cmd {
	return m.bus.Execute(command.Request{
		ID:    "load-entry",
		Label: fmt.Sprintf("prompt %d", m.ctrl.Index()+1),
		Run: func(ctx context.Context) tea.Msg {
			entry, err := m.ctrl.Open(ctx)
			return editorLoadedMsg{entry: entry, err: err}
		},
	})
}

func (m *EditorModel) handleLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded := msg.(editorLoadedMsg)
	if loaded.err != nil {
		m.fatal = true
		if errors.Is(loaded.err, prompt.ErrIndexOutOfRange) {
			m.errMsg = fmt.Sprintf("prompt %d no longer exists", m.ctrl.Index()+1)
		} else {
			m.errMsg = loaded.err.Error()
		}
		return nil
	}
	m.loaded = true
	m.title.SetValue(loaded.entry.Title)
	m.content.SetValue(loaded.entry.Content)
	return m.setFocus(fieldTitle)
}

func (m *EditorModel) handleSavedMsg(msg tea.Msg) tea.Cmd {
	saved := msg.(editorSavedMsg)
	m.saving = false
	if saved.err != nil {
		m.errMsg = saved.err.Error()
		events.Action.Error(saved.err)
		return nil
	}
	events.Action.Success(fmt.Sprintf("saved prompt %d", m.ctrl.Index()+1))
	return m.quit()
}

func (m *EditorModel) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key := msg.(tea.KeyMsg)
	k := key.String()
	events.UI.Key(editorView, k)
	if m.fatal {
		return m.cancel()
	}
	switch k {
	case "esc", "ctrl+c":
		return m.cancel()
	case "ctrl+s":
		return m.save()
	case "tab", "shift+tab":
		if m.focus == fieldTitle {
			return m.setFocus(fieldContent)
		}
		return m.setFocus(fieldTitle)
	case "enter":
		if m.focus == fieldTitle {
			return m.setFocus(fieldContent)
		}
	}
	if !m.loaded || m.saving {
		return nil
	}
	return m.updateField(key)
}

func (m *EditorModel) updateField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == fieldTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return cmd
}

func (m *EditorModel) setFocus(field editorField) tea.Cmd {
	m.focus = field
	if field == fieldTitle {
		m.content.Blur()
		return m.title.Focus()
	}
	m.title.Blur()
	return m.content.Focus()
}

func (m *EditorModel) save() tea.Cmd {
	if !m.loaded || m.saving {
		return nil
	}
	m.saving = true
	m.errMsg = ""
	title := strings.TrimSpace(m.title.Value())
	if title == "" {
		title = prompt.NewTitle
	}
	content := m.content.Value()
	return m.bus.Execute(command.Request{
		ID:    "save-entry",
		Label: fmt.Sprintf("prompt %d", m.ctrl.Index()+1),
		Run: func(ctx context.Context) tea.Msg {
			return editorSavedMsg{err: m.ctrl.Save(ctx, title, content)}
		},
	})
}

func (m *EditorModel) cancel() tea.Cmd {
	m.ctrl.Cancel()
	return m.quit()
}

func (m *EditorModel) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *EditorModel) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.resize(size.Width, size.Height)
	return nil
}

// resize fits the fields: header, two labels, the title row, a blank line,
// the error line and the footer take seven rows.
func (m *EditorModel) resize(width, height int) {
	if width > 0 {
		m.width = width
		m.title.Width = width - 1
		m.content.SetWidth(width)
	}
	if height > 0 {
		m.height = height
		rows := height - 7
		if rows < 3 {
			rows = 3
		}
		m.content.SetHeight(rows)
	}
}

// View implements tea.Model.
func (m *EditorModel) View() string {
	if m.quitting {
		return ""
	}
	lines := []styledLine{
		{text: fmt.Sprintf("Edit prompt %d", m.ctrl.Index()+1), style: styles.Header},
	}
	if m.fatal {
		lines = append(lines,
			styledLine{},
			styledLine{text: "Error: " + m.errMsg, style: styles.Error},
			styledLine{text: "press any key to close", style: styles.Footer},
		)
		return renderLines(applyWidth(lines, m.width))
	}
	if !m.loaded {
		lines = append(lines, styledLine{text: "loading…", style: styles.Info})
		return renderLines(applyWidth(lines, m.width))
	}
	lines = append(lines,
		styledLine{text: "Title", style: m.labelStyle(fieldTitle)},
		styledLine{text: m.title.View(), raw: true},
		styledLine{text: "Prompt", style: m.labelStyle(fieldContent)},
		styledLine{text: m.content.View(), raw: true},
		styledLine{},
	)
	switch {
	case m.errMsg != "":
		lines = append(lines, styledLine{text: "Error: " + m.errMsg, style: styles.Error})
	case m.saving:
		lines = append(lines, styledLine{text: "saving…", style: styles.Info})
	default:
		lines = append(lines, styledLine{text: editorFooter, style: styles.Footer})
	}
	return renderLines(lines)
}

func (m *EditorModel) labelStyle(field editorField) *lipgloss.Style {
	if m.focus == field {
		return styles.FocusedLabel
	}
	return styles.Label
}
