// Package command runs window actions off the Bubble Tea event loop.
package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request describes one action invocation.
type Request struct {
	ID    string
	Label string
	Run   func(ctx context.Context) tea.Msg
}

// Bus turns requests into Bubble Tea commands bound to a context.
type Bus struct {
	ctx context.Context
}

// New returns a bus whose commands run under ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps req into a command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		if err := b.ctx.Err(); err != nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Run(b.ctx)
		if msg == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
