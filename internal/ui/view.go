package ui

import (
	"strings"

	"github.com/atomicstack/tmux-prompt-bar/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var styles = theme.Default()

const ellipsis = "…"

type styledLine struct {
	text  string
	style *lipgloss.Style
	// raw lines already carry ANSI styling
	raw bool
}

func limitHeight(lines []styledLine, height int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	return lines[:height]
}

// applyWidth truncates every line to width columns and pads styled lines so
// backgrounds span the full width.
func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	out := make([]styledLine, len(lines))
	for i, line := range lines {
		text := truncateText(line.text, width)
		if !line.raw && line.style != nil {
			if w := ansi.StringWidth(text); w < width {
				text += strings.Repeat(" ", width-w)
			}
		}
		out[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return out
}

func renderLines(lines []styledLine) string {
	rows := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case line.raw || line.style == nil:
			rows[i] = line.text
		default:
			rows[i] = line.style.Render(line.text)
		}
	}
	return strings.Join(rows, "\n")
}

// truncateText shortens text to width display columns, ANSI-aware.
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, ellipsis)
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}
