// Package window keeps at most one open window per logical key and talks to
// the windowing host through the Host interface.
package window

import (
	"context"
	"strconv"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
)

const (
	MainKey     = "main"
	SettingsKey = "settings"
)

// EditorKey is the registry key of the editor bound to the entry at index.
func EditorKey(index int) string {
	return "edit-" + strconv.Itoa(index)
}

// Kind selects how the host realises a window.
type Kind int

const (
	// Popup is a floating window drawn over the current client.
	Popup Kind = iota
	// Pane is a window that shares screen space with its neighbours.
	Pane
)

// Config describes a window to create.
type Config struct {
	Kind    Kind
	Title   string
	Command []string
	Size    placement.Size
	// Position is the top-left corner; nil lets the host decide, which for
	// popups means centred.
	Position *placement.Point
	// Index is the entry an editor window edits, -1 for none.
	Index int
}

// Handle is an open window. Done is closed once the host reports the window
// is gone.
type Handle struct {
	Key      string
	ID       string
	Kind     Kind
	Index    int
	Position placement.Point
	Size     placement.Size

	done chan struct{}
	once sync.Once
}

// NewHandle returns an open handle.
func NewHandle(key, id string, cfg Config) *Handle {
	h := &Handle{
		Key:   key,
		ID:    id,
		Kind:  cfg.Kind,
		Index: cfg.Index,
		Size:  cfg.Size,
		done:  make(chan struct{}),
	}
	if cfg.Position != nil {
		h.Position = *cfg.Position
	}
	return h
}

// Done is closed when the window has closed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// MarkClosed is the host's acknowledgement that the window went away.
func (h *Handle) MarkClosed() {
	h.once.Do(func() { close(h.done) })
}

// Closed reports whether MarkClosed was called.
func (h *Handle) Closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Host is the windowing system.
type Host interface {
	Create(ctx context.Context, key string, cfg Config) (*Handle, error)
	Focus(ctx context.Context, h *Handle) error
	Close(ctx context.Context, h *Handle) error
	OuterPosition(ctx context.Context, h *Handle) (placement.Point, error)
	ScaleFactor(ctx context.Context, h *Handle) (float64, error)
}
