package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared by the windows.
type Styles struct {
	Slot              *lipgloss.Style
	SlotIndex         *lipgloss.Style
	SelectedSlot      *lipgloss.Style
	SlotPending       *lipgloss.Style
	SlotSuccess       *lipgloss.Style
	SlotFailure       *lipgloss.Style
	Item              *lipgloss.Style
	ItemIndicator     *lipgloss.Style
	SelectedItem      *lipgloss.Style
	MarkedItem        *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Header            *lipgloss.Style
	Footer            *lipgloss.Style
	Label             *lipgloss.Style
	FocusedLabel      *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
	PreviewTitle      *lipgloss.Style
	PreviewBody       *lipgloss.Style
}

var defaultStyles = Styles{
	Slot: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
	),
	SlotIndex: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	SelectedSlot: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true).Padding(0, 1),
	),
	SlotPending: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	SlotSuccess: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SlotFailure: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	MarkedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	FocusedLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	PreviewTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PreviewBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
}

// Default exposes the standard style set.
func Default() *Styles {
	return &defaultStyles
}

const fallbackAccent = "252"

// tailwind 500 shades used by the stored gradient names.
var accents = map[string]string{
	"purple":  "#a855f7",
	"pink":    "#ec4899",
	"blue":    "#3b82f6",
	"cyan":    "#06b6d4",
	"green":   "#22c55e",
	"emerald": "#10b981",
	"orange":  "#f97316",
	"red":     "#ef4444",
	"indigo":  "#6366f1",
	"teal":    "#14b8a6",
}

// Accent returns a foreground style for an entry's colour. The colour is
// either a hex value or a gradient such as "from-blue-500 to-cyan-500", in
// which case the starting colour is used.
func Accent(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor(color)))
}

func accentColor(color string) string {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "#") {
		if len(color) == 4 || len(color) == 7 {
			return color
		}
		return fallbackAccent
	}
	for _, field := range strings.Fields(color) {
		name, ok := strings.CutPrefix(field, "from-")
		if !ok {
			continue
		}
		if i := strings.LastIndex(name, "-"); i > 0 {
			name = name[:i]
		}
		if hex, ok := accents[name]; ok {
			return hex
		}
	}
	return fallbackAccent
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
