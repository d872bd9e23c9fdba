// Package bar coordinates the main window: it owns the bar's snapshot of the
// prompt list, reacts to bus events, drives slot feedback and opens editor and
// settings windows.
package bar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-prompt-bar/internal/delivery"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/feedback"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
)

// ListStore is the part of the store the bar reads.
type ListStore interface {
	Load(ctx context.Context) (prompt.List, bool, error)
	LoadOrSeed(ctx context.Context) (prompt.List, error)
}

// Config wires a Controller.
type Config struct {
	Store     ListStore
	Bus       *eventbus.Bus
	Windows   *window.Registry
	Text      delivery.Text
	Clipboard delivery.Clipboard
	Placement placement.Engine
	// Editor and Settings describe the windows opened for an entry and for
	// the settings screen. Position is filled in by the controller.
	Editor   func(index int, entry prompt.Entry) window.Config
	Settings func() window.Config
	// FeedbackOptions are passed to the slot feedback controller.
	FeedbackOptions []feedback.Option
}

// NoticeKind says what changed.
type NoticeKind int

const (
	ListChanged NoticeKind = iota
	FeedbackChanged
	ToggleRequested
	HotkeyIgnored
)

// Notice tells the UI to redraw or act. Index is the slot for feedback and
// hotkey notices.
type Notice struct {
	Kind  NoticeKind
	Index int
}

// Controller is the bar's coordinator. Its methods are safe for concurrent
// use; bus handlers and the UI call into it from different goroutines.
type Controller struct {
	cfg      Config
	feedback *feedback.Controller

	mu          sync.Mutex
	list        prompt.List
	loadErr     error
	hydrations  int
	scope       *eventbus.Scope
	ctx         context.Context
	cancel      context.CancelFunc
	attempts    sync.WaitGroup
	noticeCh    chan Notice
	unmounted   bool
}

func New(cfg Config) *Controller {
	if cfg.Placement == (placement.Engine{}) {
		cfg.Placement = placement.Default
	}
	c := &Controller{cfg: cfg, noticeCh: make(chan Notice, 64)}
	opts := append([]feedback.Option{}, cfg.FeedbackOptions...)
	opts = append(opts, feedback.WithNotify(func(index int, _ feedback.Status) {
		c.notify(Notice{Kind: FeedbackChanged, Index: index})
	}))
	c.feedback = feedback.New(opts...)
	return c
}

// Mount hydrates the list, seeding defaults on first run, and subscribes to
// the bus. Subscriptions are released by Unmount.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.scope != nil || c.unmounted {
		c.mu.Unlock()
		return errors.New("bar already mounted")
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	list, err := c.cfg.Store.LoadOrSeed(ctx)
	c.mu.Lock()
	if err != nil {
		c.loadErr = err
	} else {
		c.list = list
		c.loadErr = nil
		c.hydrations++
	}
	c.mu.Unlock()
	if err != nil {
		logging.Error(fmt.Errorf("hydrate bar: %w", err))
	}

	scope := c.cfg.Bus.NewScope()
	subs := []struct {
		topic   eventbus.Topic
		handler eventbus.Handler
	}{
		{eventbus.TopicListChanged, func(eventbus.Event) { c.Rehydrate(c.context()) }},
		{eventbus.TopicHotkey, c.handleHotkey},
		{eventbus.TopicToggleBar, func(eventbus.Event) { c.notify(Notice{Kind: ToggleRequested}) }},
	}
	for _, s := range subs {
		if serr := scope.Subscribe(s.topic, s.handler); serr != nil {
			scope.Close()
			return fmt.Errorf("subscribe %s: %w", s.topic, serr)
		}
	}
	c.mu.Lock()
	c.scope = scope
	c.mu.Unlock()
	return err
}

// Unmount releases subscriptions, waits for in-flight attempts and stops
// feedback timers.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	scope := c.scope
	c.scope = nil
	cancel := c.cancel
	c.mu.Unlock()
	if scope != nil {
		scope.Close()
	}
	if cancel != nil {
		cancel()
	}
	c.attempts.Wait()
	c.feedback.Close()
	c.mu.Lock()
	close(c.noticeCh)
	c.mu.Unlock()
}

// Notices streams redraw requests for the UI. It is closed by Unmount.
func (c *Controller) Notices() <-chan Notice {
	return c.noticeCh
}

// Rehydrate discards the snapshot and reloads it. On failure the last known
// list stays in place and the error is kept for display.
func (c *Controller) Rehydrate(ctx context.Context) error {
	list, _, err := c.cfg.Store.Load(ctx)
	c.mu.Lock()
	if err != nil {
		c.loadErr = err
	} else {
		c.list = list
		c.loadErr = nil
		c.hydrations++
	}
	c.mu.Unlock()
	if err != nil {
		logging.Error(fmt.Errorf("rehydrate bar: %w", err))
	}
	c.notify(Notice{Kind: ListChanged})
	return err
}

// List returns a copy of the current snapshot.
func (c *Controller) List() prompt.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Clone()
}

// Slots returns the entries shown in the bar.
func (c *Controller) Slots() prompt.List {
	return c.List().Slots()
}

// LoadError is the error of the last failed hydration, nil after a success.
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Hydrations counts successful loads.
func (c *Controller) Hydrations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrations
}

// Feedback exposes slot feedback state.
func (c *Controller) Feedback() *feedback.Controller {
	return c.feedback
}

// Wait blocks until every started delivery or copy attempt has reported.
func (c *Controller) Wait() {
	c.attempts.Wait()
}

func (c *Controller) entry(index int) (prompt.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.At(index)
}

func (c *Controller) context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Controller) handleHotkey(evt eventbus.Event) {
	index, ok := evt.SlotIndex()
	if !ok {
		logging.Error(fmt.Errorf("hotkey event without slot index: %#v", evt.Payload))
		return
	}
	events.Action.Hotkey(index)
	if !c.Deliver(c.context(), index) {
		c.notify(Notice{Kind: HotkeyIgnored, Index: index})
	}
}

func (c *Controller) notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	select {
	case c.noticeCh <- n:
	default:
	}
}
