// Package editor edits a single entry of the persisted list. An editor is
// bound to a positional index for its whole life.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
)

// ListStore is the part of the store an editor needs.
type ListStore interface {
	Load(ctx context.Context) (prompt.List, bool, error)
	Save(ctx context.Context, list prompt.List) error
}

// Publisher announces list changes.
type Publisher interface {
	Publish(topic eventbus.Topic, payload any) error
}

var ErrClosed = errors.New("editor closed")

// Controller backs one editor window.
type Controller struct {
	store ListStore
	bus   Publisher
	index int
	close func()

	mu     sync.Mutex
	entry  prompt.Entry
	closed bool
}

// New binds an editor to index. closeWindow is called once after a save or a
// cancel; it may be nil.
func New(store ListStore, bus Publisher, index int, closeWindow func()) *Controller {
	return &Controller{store: store, bus: bus, index: index, close: closeWindow}
}

// Index is the bound position.
func (c *Controller) Index() int {
	return c.index
}

// Open loads the entry being edited. An index outside the list is reported
// as prompt.ErrIndexOutOfRange so the window can show it.
func (c *Controller) Open(ctx context.Context) (prompt.Entry, error) {
	list, _, err := c.store.Load(ctx)
	if err != nil {
		return prompt.Entry{}, fmt.Errorf("load prompts: %w", err)
	}
	entry, ok := list.At(c.index)
	if !ok {
		return prompt.Entry{}, fmt.Errorf("prompt %d of %d: %w", c.index+1, len(list), prompt.ErrIndexOutOfRange)
	}
	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()
	return entry, nil
}

// Entry is the entry as last opened.
func (c *Controller) Entry() prompt.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// Save writes title and content into the entry currently at the bound index,
// announces the change and closes the window. The list is re-read first so
// edits made elsewhere since Open are kept.
func (c *Controller) Save(ctx context.Context, title, content string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	list, _, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	current, ok := list.At(c.index)
	if !ok {
		return fmt.Errorf("prompt %d of %d: %w", c.index+1, len(list), prompt.ErrIndexOutOfRange)
	}
	if opened := c.Entry(); opened.ID != "" && opened.ID != current.ID {
		logging.Trace("editor.save.shifted", map[string]any{"index": c.index, "opened": opened.ID, "current": current.ID})
	}
	current.Title = title
	current.Content = content
	updated, err := list.ReplaceAt(c.index, current)
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	if c.bus != nil {
		if err := c.bus.Publish(eventbus.TopicListChanged, nil); err != nil {
			logging.Error(fmt.Errorf("announce edit of prompt %d: %w", c.index+1, err))
		}
	}
	c.mu.Lock()
	c.entry = current
	c.mu.Unlock()
	c.finish()
	return nil
}

// Cancel closes the window without writing.
func (c *Controller) Cancel() {
	c.finish()
}

func (c *Controller) finish() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	if c.close != nil {
		c.close()
	}
}
