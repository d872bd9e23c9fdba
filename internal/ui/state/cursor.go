package state

// MoveCursor moves the row cursor by delta, stopping at either end.
func (l *List) MoveCursor(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clampInt(l.Cursor+delta, 0, len(l.Items)-1)
	return l.Cursor != old
}

// MoveCursorHome moves the cursor to the first row.
func (l *List) MoveCursorHome() bool {
	return l.MoveCursor(-len(l.Items))
}

// MoveCursorEnd moves the cursor to the last row.
func (l *List) MoveCursorEnd() bool {
	return l.MoveCursor(len(l.Items))
}

// MoveCursorPage moves by one page of maxVisible rows; pages < 0 goes up.
func (l *List) MoveCursorPage(pages, maxVisible int) bool {
	size := maxVisible
	if size <= 0 || size > len(l.Items) {
		size = len(l.Items)
	}
	return l.MoveCursor(pages * size)
}

// EnsureCursorVisible adjusts the viewport so the cursor row is shown.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clampInt(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	l.ViewportOffset = clampInt(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+maxVisible-1 {
		l.ViewportOffset = clampInt(l.Cursor-maxVisible+1, 0, maxOffset)
	}
}

// Visible returns the rows inside the viewport and the index of the first.
func (l *List) Visible(maxVisible int) ([]Item, int) {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return l.Items, 0
	}
	start := clampInt(l.ViewportOffset, 0, len(l.Items)-maxVisible)
	return l.Items[start : start+maxVisible], start
}
