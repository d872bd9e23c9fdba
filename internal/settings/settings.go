// Package settings backs the settings window: it edits the prompt list as a
// whole and the scalar preferences, announcing every change.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
)

// ListStore reads and writes the prompt list.
type ListStore interface {
	Load(ctx context.Context) (prompt.List, bool, error)
	LoadOrSeed(ctx context.Context) (prompt.List, error)
	Save(ctx context.Context, list prompt.List) error
}

// PreferenceStore reads and writes scalar settings.
type PreferenceStore interface {
	Load(ctx context.Context) (store.Settings, error)
	Save(ctx context.Context, settings store.Settings) error
}

// Publisher announces list changes.
type Publisher interface {
	Publish(topic eventbus.Topic, payload any) error
}

// Binder re-installs the global hotkeys after the toggle shortcut changed.
type Binder interface {
	Rebind(ctx context.Context, oldKey, newKey string) error
}

// Controller holds the settings window's view of the store.
type Controller struct {
	prompts ListStore
	prefs   PreferenceStore
	bus     Publisher
	binder  Binder

	mu       sync.Mutex
	list     prompt.List
	settings store.Settings
}

// New returns a controller; bus and binder may be nil.
func New(prompts ListStore, prefs PreferenceStore, bus Publisher, binder Binder) *Controller {
	return &Controller{
		prompts:  prompts,
		prefs:    prefs,
		bus:      bus,
		binder:   binder,
		settings: store.DefaultSettings(),
	}
}

// Load reads both documents.
func (c *Controller) Load(ctx context.Context) error {
	list, err := c.prompts.LoadOrSeed(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	prefs, err := c.prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	c.mu.Lock()
	c.list = list
	c.settings = prefs
	c.mu.Unlock()
	return nil
}

// Refresh re-reads the prompt list after a list-changed event.
func (c *Controller) Refresh(ctx context.Context) error {
	list, _, err := c.prompts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return nil
}

func (c *Controller) List() prompt.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Clone()
}

func (c *Controller) Settings() store.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Add appends a new prompt and returns it.
func (c *Controller) Add(ctx context.Context) (prompt.Entry, error) {
	var added prompt.Entry
	err := c.mutate(ctx, func(list prompt.List) (prompt.List, error) {
		out, entry := list.Add()
		added = entry
		return out, nil
	})
	return added, err
}

// Remove deletes the prompt with id.
func (c *Controller) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, func(list prompt.List) (prompt.List, error) {
		return list.Remove(id)
	})
}

// Reset replaces the list with the default prompts.
func (c *Controller) Reset(ctx context.Context) error {
	return c.mutate(ctx, func(prompt.List) (prompt.List, error) {
		return prompt.Defaults(), nil
	})
}

// Replace swaps in a whole list, as an import does.
func (c *Controller) Replace(ctx context.Context, list prompt.List) error {
	return c.mutate(ctx, func(prompt.List) (prompt.List, error) {
		return list.Normalize(), nil
	})
}

// mutate applies fn to the freshly loaded list, saves and announces.
func (c *Controller) mutate(ctx context.Context, fn func(prompt.List) (prompt.List, error)) error {
	list, _, err := c.prompts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	updated, err := fn(list)
	if err != nil {
		return err
	}
	if err := c.prompts.Save(ctx, updated); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	c.mu.Lock()
	c.list = updated
	c.mu.Unlock()
	c.announce()
	return nil
}

func (c *Controller) announce() {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(eventbus.TopicListChanged, nil); err != nil {
		logging.Error(fmt.Errorf("announce list change: %w", err))
	}
}

// SetToggleShortcut stores key and re-binds the toggle hotkey. An empty key
// restores the default.
func (c *Controller) SetToggleShortcut(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		key = store.DefaultToggleShortcut
	}
	if strings.ContainsAny(key, " \t") {
		return fmt.Errorf("invalid shortcut %q", key)
	}
	c.mu.Lock()
	prev := c.settings
	c.mu.Unlock()
	if prev.ToggleShortcut == key {
		return nil
	}
	next := prev
	next.ToggleShortcut = key
	if err := c.prefs.Save(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	c.mu.Lock()
	c.settings = next
	c.mu.Unlock()
	if c.binder != nil {
		if err := c.binder.Rebind(ctx, prev.ToggleShortcut, key); err != nil {
			return fmt.Errorf("rebind %s: %w", key, err)
		}
	}
	return nil
}

// SetSubmitAfterPaste toggles sending Enter after a delivered prompt.
func (c *Controller) SetSubmitAfterPaste(ctx context.Context, submit bool) error {
	c.mu.Lock()
	next := c.settings
	c.mu.Unlock()
	next.SubmitAfterPaste = submit
	if err := c.prefs.Save(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	c.mu.Lock()
	c.settings = next
	c.mu.Unlock()
	return nil
}
