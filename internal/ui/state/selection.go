package state

// CleanupSelections drops marks for entries no longer in the list.
func (l *List) CleanupSelections() {
	if len(l.Selected) == 0 {
		return
	}
	valid := make(map[string]struct{}, len(l.Full))
	for _, item := range l.Full {
		valid[item.ID] = struct{}{}
	}
	for id := range l.Selected {
		if _, ok := valid[id]; !ok {
			delete(l.Selected, id)
		}
	}
}

// IsSelected reports whether id is marked.
func (l *List) IsSelected(id string) bool {
	_, ok := l.Selected[id]
	return ok
}

// ToggleCurrentSelection marks or unmarks the row under the cursor.
func (l *List) ToggleCurrentSelection() {
	cur, ok := l.Current()
	if !ok {
		return
	}
	if l.Selected == nil {
		l.Selected = make(map[string]struct{})
	}
	if _, marked := l.Selected[cur.ID]; marked {
		delete(l.Selected, cur.ID)
	} else {
		l.Selected[cur.ID] = struct{}{}
	}
}

// ClearSelection removes every mark.
func (l *List) ClearSelection() {
	clear(l.Selected)
}

// Targets returns the marked rows in display order, or the row under the
// cursor when nothing is marked.
func (l *List) Targets() []Item {
	if len(l.Selected) == 0 {
		if cur, ok := l.Current(); ok {
			return []Item{cur}
		}
		return nil
	}
	out := make([]Item, 0, len(l.Selected))
	for _, item := range l.Full {
		if l.IsSelected(item.ID) {
			out = append(out, item)
		}
	}
	return out
}
