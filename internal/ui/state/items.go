package state

import (
	"strconv"

	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
)

// Item is one row of a list: a prompt entry and its position in the
// persisted list.
type Item struct {
	ID    string
	Label string
	Index int
}

// ItemsFromPrompts lists entries in stored order.
func ItemsFromPrompts(list prompt.List) []Item {
	items := make([]Item, len(list))
	for i, e := range list {
		label := e.Title
		if label == "" {
			label = "prompt " + strconv.Itoa(i+1)
		}
		items[i] = Item{ID: e.ID, Label: label, Index: i}
	}
	return items
}

// CloneItems produces a shallow copy of items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
