package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-prompt-bar/internal/feedback"
	"github.com/atomicstack/tmux-prompt-bar/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	slotGap      = 1
	slotMinWidth = 6
	barFooter    = "1-9 inject  c copy  e edit  s settings  r reload  q hide"
)

// View implements tea.Model.
func (m *BarModel) View() string {
	if m.quitting {
		return ""
	}
	lines := []styledLine{{text: m.slotRow(), raw: true}}
	if status := m.statusLine(); status.text != "" {
		lines = append(lines, status)
	} else if m.showFooter {
		lines = append(lines, styledLine{text: barFooter, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height)
	lines = applyWidth(lines, m.width)
	return m.zones.Scan(renderLines(lines))
}

func (m *BarModel) slotRow() string {
	slots := m.ctrl.Slots()
	if len(slots) == 0 {
		return render(styles.Info, "(no prompts, press s to add one)")
	}
	width := m.slotWidth(len(slots))
	cells := make([]string, len(slots))
	for i, entry := range slots {
		status := m.ctrl.Feedback().Status(i)
		label := slotIndicator(status) + slotLabel(i, entry)
		label = truncateText(label, width-2)
		if pad := width - 2 - ansi.StringWidth(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		style := styles.Slot
		if i == m.cursor {
			style = styles.SelectedSlot
		}
		cell := style.Foreground(slotColor(status, entry.Color)).Render(label)
		cells[i] = m.zones.Mark(slotZoneID(i), cell)
	}
	return strings.Join(cells, strings.Repeat(" ", slotGap))
}

// slotWidth splits the bar evenly, never below slotMinWidth.
func (m *BarModel) slotWidth(n int) int {
	if m.width <= 0 {
		return 24
	}
	w := (m.width - slotGap*(n-1)) / n
	if w < slotMinWidth {
		return slotMinWidth
	}
	return w
}

func slotIndicator(status feedback.Status) string {
	switch status.State {
	case feedback.Pending:
		return "… "
	case feedback.Success:
		if status.Kind == feedback.Copied {
			return "⧉ "
		}
		return "✓ "
	case feedback.Failure:
		return "✗ "
	}
	return ""
}

func slotColor(status feedback.Status, color string) lipgloss.TerminalColor {
	switch status.State {
	case feedback.Pending:
		return styles.SlotPending.GetForeground()
	case feedback.Success:
		return styles.SlotSuccess.GetForeground()
	case feedback.Failure:
		return styles.SlotFailure.GetForeground()
	}
	return theme.Accent(color).GetForeground()
}

// statusLine prefers a slot's failure message over errors and info.
func (m *BarModel) statusLine() styledLine {
	for i := range m.ctrl.Slots() {
		if s := m.ctrl.Feedback().Status(i); s.State == feedback.Failure && s.Message != "" {
			return styledLine{text: s.Message, style: styles.Error}
		}
	}
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if m.infoMsg != "" {
		return styledLine{text: m.infoMsg, style: styles.Info}
	}
	return styledLine{}
}
