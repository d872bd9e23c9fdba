// Package delivery holds the collaborators that move a prompt's content out
// of the bar: into another pane or onto the clipboard.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/tmux"
)

// Text places content into whatever currently has focus.
type Text interface {
	Deliver(ctx context.Context, content string) error
}

// Clipboard writes content to the clipboard.
type Clipboard interface {
	Write(ctx context.Context, content string) error
}

var (
	pasteText      = tmux.PasteText
	deliveryTarget = tmux.DeliveryTarget
	copyToBuffer   = tmux.CopyToBuffer

	clipboardUnsupported = func() bool { return clipboard.Unsupported }
	writeClipboard       = clipboard.WriteAll
)

// Pane pastes into the pane the user is working in, never into the bar.
type Pane struct {
	Socket string
	// Bar is the pane id of the bar itself.
	Bar string
	// Submit reports whether an Enter should follow the paste. It is read on
	// every delivery so a settings change applies without a restart.
	Submit func() bool
}

func (p *Pane) Deliver(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := deliveryTarget(p.Socket, p.Bar)
	if err != nil {
		return fmt.Errorf("no target pane: %w", err)
	}
	submit := p.Submit != nil && p.Submit()
	events.Action.Paste(target, submit)
	return pasteText(p.Socket, target, content, submit)
}

// SystemClipboard writes to the OS clipboard and falls back to the tmux
// buffer when no clipboard tool is available.
type SystemClipboard struct {
	Socket string
}

var ErrNoClipboard = errors.New("no clipboard available")

func (c SystemClipboard) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !clipboardUnsupported() {
		err := writeClipboard(content)
		if err == nil {
			return nil
		}
		logging.Error(fmt.Errorf("system clipboard: %w", err))
	}
	if err := copyToBuffer(c.Socket, content); err != nil {
		return fmt.Errorf("%w: %v", ErrNoClipboard, err)
	}
	return nil
}
