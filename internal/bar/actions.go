package bar

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/tmux-prompt-bar/internal/feedback"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
)

var errNoDelivery = errors.New("no delivery configured")

// Deliver injects the entry at index into the focused target and drives the
// slot's feedback. It returns false, doing nothing, when index is outside the
// current list.
func (c *Controller) Deliver(ctx context.Context, index int) bool {
	entry, ok := c.entry(index)
	if !ok {
		logging.Trace("bar.deliver.ignored", map[string]int{"index": index})
		return false
	}
	events.Action.Deliver(index, entry.Title)
	c.run(ctx, index, feedback.Injected, func(ctx context.Context) error {
		if c.cfg.Text == nil {
			return errNoDelivery
		}
		if err := c.cfg.Text.Deliver(ctx, entry.Content); err != nil {
			return fmt.Errorf("failed to inject prompt %d: %w", index+1, err)
		}
		return nil
	})
	return true
}

// Copy places the entry's content on the clipboard.
func (c *Controller) Copy(ctx context.Context, index int) bool {
	entry, ok := c.entry(index)
	if !ok {
		logging.Trace("bar.copy.ignored", map[string]int{"index": index})
		return false
	}
	events.Action.Copy(index, entry.Title)
	c.run(ctx, index, feedback.Copied, func(ctx context.Context) error {
		if c.cfg.Clipboard == nil {
			return errNoDelivery
		}
		if err := c.cfg.Clipboard.Write(ctx, entry.Content); err != nil {
			return fmt.Errorf("failed to copy prompt %d: %w", index+1, err)
		}
		return nil
	})
	return true
}

func (c *Controller) run(ctx context.Context, index int, kind feedback.Kind, fn func(context.Context) error) {
	token := c.feedback.Start(index, kind)
	c.attempts.Add(1)
	go func() {
		defer c.attempts.Done()
		err := fn(ctx)
		if err != nil {
			logging.Error(err)
		}
		c.feedback.Report(index, token, err)
	}()
}

// OpenEditor opens the editor for the entry at index, or focuses it when one
// is already open. With a trigger rectangle, given in the main window's
// logical units, the editor is placed above it; without one it is centred.
func (c *Controller) OpenEditor(ctx context.Context, index int, trigger *placement.Rect) (*window.Handle, error) {
	entry, ok := c.entry(index)
	if !ok {
		err := fmt.Errorf("open editor %d: %w", index, prompt.ErrIndexOutOfRange)
		logging.Error(err)
		return nil, err
	}
	if c.cfg.Editor == nil {
		return nil, errors.New("no editor window configured")
	}
	cfg := c.cfg.Editor(index, entry)
	cfg.Index = index
	if trigger != nil {
		pos, err := c.anchor(ctx, *trigger, cfg.Size)
		if err != nil {
			logging.Error(fmt.Errorf("anchor editor %d: %w", index, err))
		} else {
			cfg.Position = &pos
		}
	}
	h, _, err := c.cfg.Windows.Open(ctx, window.EditorKey(index), cfg)
	if err != nil {
		logging.Error(err)
		return nil, err
	}
	return h, nil
}

// OpenSettings opens the settings window centred, or focuses it.
func (c *Controller) OpenSettings(ctx context.Context) (*window.Handle, error) {
	if c.cfg.Settings == nil {
		return nil, errors.New("no settings window configured")
	}
	cfg := c.cfg.Settings()
	cfg.Position = nil
	cfg.Index = -1
	h, _, err := c.cfg.Windows.Open(ctx, window.SettingsKey, cfg)
	if err != nil {
		logging.Error(err)
		return nil, err
	}
	return h, nil
}

// anchor resolves the trigger against the main window's position and scale.
func (c *Controller) anchor(ctx context.Context, trigger placement.Rect, size placement.Size) (placement.Point, error) {
	owner, ok := c.cfg.Windows.Get(window.MainKey)
	if !ok {
		return placement.Point{}, fmt.Errorf("main window: %w", window.ErrNotOpen)
	}
	host := c.cfg.Windows.Host()
	origin, err := host.OuterPosition(ctx, owner)
	if err != nil {
		return placement.Point{}, err
	}
	scale, err := host.ScaleFactor(ctx, owner)
	if err != nil {
		return placement.Point{}, err
	}
	return c.cfg.Placement.Place(trigger, origin, scale, size), nil
}
