package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long title", 8, "too lon…"},
		{"anything", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		if got := truncateText(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncateText(%q, %d): expected %q, got %q", tt.in, tt.width, tt.want, got)
		}
	}
}

func TestApplyWidthPadsStyledLines(t *testing.T) {
	lines := applyWidth([]styledLine{
		{text: "a", style: styles.Info},
		{text: "b"},
		{text: "a very long line indeed", style: styles.Info},
	}, 6)
	if got := ansi.StringWidth(lines[0].text); got != 6 {
		t.Fatalf("expected styled line padded to 6, got %d", got)
	}
	if lines[1].text != "b" {
		t.Fatalf("expected plain line left alone, got %q", lines[1].text)
	}
	if got := ansi.StringWidth(lines[2].text); got != 6 {
		t.Fatalf("expected long line truncated to 6, got %d", got)
	}
}

func TestLimitHeight(t *testing.T) {
	lines := []styledLine{{text: "1"}, {text: "2"}, {text: "3"}}
	if got := limitHeight(lines, 2); len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got := limitHeight(lines, 0); len(got) != 3 {
		t.Fatalf("expected unlimited height, got %d", len(got))
	}
}
