package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives a model programmatically for tests. Commands returned by
// Update are executed synchronously and their messages fed back, so callers
// must not route messages whose commands block.
type Harness struct {
	model tea.Model
}

// NewHarness creates a harness for model.
func NewHarness(model tea.Model) *Harness {
	return &Harness{model: model}
}

// Send routes msg through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	h.model = mdl
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	default:
		mdl, next := h.model.Update(msg)
		h.model = mdl
		h.processCmd(next)
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() tea.Model {
	return h.model
}
