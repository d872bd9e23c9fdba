package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/theme"
	uistate "github.com/atomicstack/tmux-prompt-bar/internal/ui/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	previewLines      = 4
	settingsChrome    = 12
	filterPlaceholder = "(type to search)"
	settingsFooter    = "tab mark  ctrl+o add  ctrl+d remove  ctrl+r reset  ctrl+t shortcut  ctrl+s submit  esc close"
)

// View implements tea.Model.
func (m *SettingsModel) View() string {
	if m.quitting {
		return ""
	}
	prefs := m.ctrl.Settings()
	submit := "off"
	if prefs.SubmitAfterPaste {
		submit = "on"
	}
	lines := []styledLine{
		{text: "Prompt bar settings", style: styles.Header},
		{text: fmt.Sprintf("toggle bar: %s   submit after paste: %s", prefs.ToggleShortcut, submit), style: styles.Info},
		{text: fmt.Sprintf("alt+1..%d inject the first %d prompts", prompt.MaxSlots, prompt.MaxSlots), style: styles.Footer},
		{text: m.filterLine(), raw: true},
	}
	lines = append(lines, m.rowLines()...)
	lines = append(lines, styledLine{})
	lines = append(lines, m.previewLines()...)
	lines = append(lines, m.statusLine())
	lines = append(lines, styledLine{text: settingsFooter, style: styles.Footer})
	lines = limitHeight(lines, m.height)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *SettingsModel) maxVisibleRows() int {
	if m.height <= 0 {
		return 10
	}
	if rows := m.height - settingsChrome; rows > 3 {
		return rows
	}
	return 3
}

func (m *SettingsModel) filterLine() string {
	prompt := render(styles.FilterPrompt, "» ")
	text := m.list.Filter
	if text == "" {
		runes := []rune(filterPlaceholder)
		return prompt + render(styles.Cursor, string(runes[0])) + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(text)
	pos := m.list.FilterCursorPos()
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt + render(styles.Filter, string(runes[:pos])) + render(styles.Cursor, caret) + render(styles.Filter, after)
}

func (m *SettingsModel) rowLines() []styledLine {
	if !m.loaded {
		return []styledLine{{text: "loading…", style: styles.Info}}
	}
	if len(m.list.Items) == 0 {
		if m.list.Filter != "" {
			return []styledLine{{text: "no matching prompts", style: styles.Info}}
		}
		return []styledLine{{text: "no prompts, ctrl+o adds one", style: styles.Info}}
	}
	visible, offset := m.list.Visible(m.maxVisibleRows())
	list := m.ctrl.List()
	out := make([]styledLine, 0, len(visible))
	for i, item := range visible {
		out = append(out, m.rowLine(item, offset+i == m.list.Cursor, list))
	}
	return out
}

func (m *SettingsModel) rowLine(item uistate.Item, selected bool, list prompt.List) styledLine {
	indicator := "  "
	if selected {
		indicator = "▌ "
	}
	mark := "  "
	if m.list.IsSelected(item.ID) {
		mark = "✓ "
	}
	slot := "  "
	if item.Index < prompt.MaxSlots {
		slot = fmt.Sprintf("%d ", item.Index+1)
	}
	label := item.Label
	if selected {
		return styledLine{text: indicator + mark + slot + label, style: styles.SelectedItem}
	}
	if m.list.IsSelected(item.ID) {
		return styledLine{text: indicator + mark + slot + label, style: styles.MarkedItem}
	}
	color := ""
	if entry, ok := list.At(item.Index); ok {
		color = entry.Color
	}
	accent := theme.Accent(color)
	text := render(styles.ItemIndicator, indicator+mark) + render(styles.SlotIndex, slot) + accent.Render(label)
	return styledLine{text: text, raw: true}
}

// previewLines shows the content of the entry under the cursor wrapped to the
// window width.
func (m *SettingsModel) previewLines() []styledLine {
	cur, ok := m.list.Current()
	if !ok {
		return nil
	}
	entry, ok := m.ctrl.List().At(cur.Index)
	if !ok {
		return nil
	}
	width := m.width
	if width <= 0 {
		width = 60
	}
	out := []styledLine{{text: "Preview", style: styles.PreviewTitle}}
	wrapped := strings.Split(wordwrap.String(entry.Content, width), "\n")
	if len(wrapped) > previewLines {
		wrapped = wrapped[:previewLines]
		wrapped[previewLines-1] = truncateText(wrapped[previewLines-1]+" "+ellipsis, width)
	}
	for _, line := range wrapped {
		out = append(out, styledLine{text: line, style: styles.PreviewBody})
	}
	return out
}

func (m *SettingsModel) statusLine() styledLine {
	switch m.mode {
	case modeConfirmReset:
		return styledLine{text: "replace every prompt with the defaults? (y/n)", style: styles.Error}
	case modeShortcut:
		return styledLine{text: m.shortcut.View(), raw: true}
	}
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if m.busy {
		return styledLine{text: "saving…", style: styles.Info}
	}
	return styledLine{text: m.infoMsg, style: styles.Info}
}
