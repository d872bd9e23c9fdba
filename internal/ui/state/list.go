package state

// List tracks the rows of a filterable list: cursor, filter text and
// viewport.
type List struct {
	ID             string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	Selected       map[string]struct{}
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a list over items.
func NewList(id string, items []Item) *List {
	l := &List{
		ID:         id,
		LastCursor: -1,
		Selected:   make(map[string]struct{}),
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the row showing id, or -1.
func (l *List) IndexOf(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the row under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the rows, keeping the cursor on the same entry when it
// survives and dropping marks for entries that went away.
func (l *List) UpdateItems(items []Item) {
	var keep string
	if cur, ok := l.Current(); ok {
		keep = cur.ID
	}
	l.Full = CloneItems(items)
	l.CleanupSelections()
	l.applyFilter()
	if keep != "" {
		if idx := l.IndexOf(keep); idx >= 0 {
			l.Cursor = idx
		}
	}
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}
