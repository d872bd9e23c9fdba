// Package prompt defines the prompt entries shown in the bar and the ordered
// list that owns them. A List value is always a snapshot: callers mutate their
// own copy and persist the whole list through the store.
package prompt

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxSlots is the number of bar slots that carry a hotkey.
const MaxSlots = 9

var (
	ErrIndexOutOfRange = errors.New("prompt index out of range")
	ErrNotFound        = errors.New("prompt not found")
	ErrDuplicateID     = errors.New("duplicate prompt id")
)

// Entry is a single stored prompt.
type Entry struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Color   string `json:"color" yaml:"color"`
}

// List is the ordered prompt sequence. Order decides the slot and hotkey
// each entry is bound to.
type List []Entry

// Palette is cycled through when new prompts are added.
var Palette = []string{
	"from-purple-500 to-pink-500",
	"from-blue-500 to-cyan-500",
	"from-green-500 to-emerald-500",
	"from-orange-500 to-red-500",
	"from-indigo-500 to-purple-500",
	"from-teal-500 to-green-500",
}

const (
	NewTitle   = "New Prompt"
	NewContent = "Enter your prompt here..."
)

var newID = func() string {
	return uuid.NewString()
}

// New creates an entry with a fresh identifier.
func New(title, content, color string) Entry {
	return Entry{ID: newID(), Title: title, Content: content, Color: color}
}

// Defaults returns the first-run prompt list.
func Defaults() List {
	return List{
		{
			ID:      "1",
			Title:   "Debug Root Cause",
			Content: "Come up with 5-7 most likely root causes of this bug, and attempt the 1-2 most likely fixes with proper logging. Don't hold back, give it your all.",
			Color:   Palette[0],
		},
		{
			ID:      "2",
			Title:   "Explain Code",
			Content: "Explain this code in detail, including its purpose, how it works, potential edge cases, and any improvements that could be made.",
			Color:   Palette[1],
		},
		{
			ID:      "3",
			Title:   "Refactor",
			Content: "Refactor this code to be more readable, maintainable, and performant. Follow best practices and explain your changes.",
			Color:   Palette[2],
		},
		{
			ID:      "4",
			Title:   "Write Tests",
			Content: "Write comprehensive unit tests for this code, covering edge cases and error scenarios. Use appropriate testing patterns.",
			Color:   Palette[3],
		},
		{
			ID:      "5",
			Title:   "Optimize Performance",
			Content: "Analyze this code for performance bottlenecks and suggest specific optimizations with examples.",
			Color:   Palette[4],
		},
		{
			ID:      "6",
			Title:   "Add Error Handling",
			Content: "Add comprehensive error handling to this code with proper logging and user-friendly error messages.",
			Color:   Palette[5],
		},
	}
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	dup := make(List, len(l))
	copy(dup, l)
	return dup
}

// At resolves an index against the list.
func (l List) At(index int) (Entry, bool) {
	if index < 0 || index >= len(l) {
		return Entry{}, false
	}
	return l[index], true
}

// IndexOf returns the position of the entry with id, or -1.
func (l List) IndexOf(id string) int {
	for i, e := range l {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Slots returns the entries that fit into the bar.
func (l List) Slots() List {
	if len(l) > MaxSlots {
		return l[:MaxSlots]
	}
	return l
}

// Add appends a new entry with the default title and content and returns the
// grown list together with the created entry.
func (l List) Add() (List, Entry) {
	entry := New(NewTitle, NewContent, Palette[len(l)%len(Palette)])
	out := append(l.Clone(), entry)
	return out, entry
}

// Remove drops the entry with id, keeping the relative order of the rest.
func (l List) Remove(id string) (List, error) {
	idx := l.IndexOf(id)
	if idx < 0 {
		return l, fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:idx]...)
	out = append(out, l[idx+1:]...)
	return out, nil
}

// ReplaceAt swaps the entry at index for e. The identifier of the replaced
// entry is kept when e carries none.
func (l List) ReplaceAt(index int, e Entry) (List, error) {
	if index < 0 || index >= len(l) {
		return l, fmt.Errorf("replace index %d of %d: %w", index, len(l), ErrIndexOutOfRange)
	}
	if e.ID == "" {
		e.ID = l[index].ID
	}
	if other := l.IndexOf(e.ID); other >= 0 && other != index {
		return l, fmt.Errorf("replace index %d with %q: %w", index, e.ID, ErrDuplicateID)
	}
	out := l.Clone()
	out[index] = e
	return out, nil
}

// ReplaceByID swaps the entry sharing e's identifier.
func (l List) ReplaceByID(e Entry) (List, error) {
	idx := l.IndexOf(e.ID)
	if idx < 0 {
		return l, fmt.Errorf("replace %q: %w", e.ID, ErrNotFound)
	}
	out := l.Clone()
	out[idx] = e
	return out, nil
}

// Validate reports duplicate or empty identifiers.
func (l List) Validate() error {
	seen := make(map[string]int, len(l))
	for i, e := range l {
		if e.ID == "" {
			return fmt.Errorf("prompt %d has no id", i+1)
		}
		if prev, ok := seen[e.ID]; ok {
			return fmt.Errorf("prompts %d and %d share id %q: %w", prev+1, i+1, e.ID, ErrDuplicateID)
		}
		seen[e.ID] = i
	}
	return nil
}

// Normalize fills in identifiers and colours missing from entries that came
// from outside the store, such as an imported file.
func (l List) Normalize() List {
	out := l.Clone()
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = newID()
		}
		if out[i].Color == "" {
			out[i].Color = Palette[i%len(Palette)]
		}
	}
	return out
}
