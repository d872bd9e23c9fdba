package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/tmux-prompt-bar/internal/backend"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/ipc"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

const relayTimeout = time.Second

var sendMessage = ipc.Send

// busHandler publishes messages received on the bar socket onto bus.
func busHandler(bus *eventbus.Bus) ipc.Handler {
	return func(msg ipc.Message) error {
		switch msg.Kind {
		case ipc.Hotkey:
			events.Action.Hotkey(msg.Index)
			return bus.Publish(eventbus.TopicHotkey, msg.Index)
		case ipc.Toggle:
			return bus.Publish(eventbus.TopicToggleBar, nil)
		case ipc.Changed:
			return bus.Publish(eventbus.TopicListChanged, nil)
		}
		return fmt.Errorf("unsupported message %s", msg)
	}
}

// relayPublisher publishes locally and forwards list changes to the bar
// process. The forward is synchronous so a popup that exits right after
// saving has already told the bar.
type relayPublisher struct {
	bus  *eventbus.Bus
	path string
}

func (r relayPublisher) Publish(topic eventbus.Topic, payload any) error {
	err := r.bus.Publish(topic, payload)
	if topic != eventbus.TopicListChanged || r.path == "" {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()
	events.Bus.Relay(string(topic), r.path)
	if serr := sendMessage(ctx, r.path, ipc.Message{Kind: ipc.Changed}); serr != nil {
		// the bar may simply be hidden; its watcher catches up when it starts
		logging.Trace("bus.relay.unreachable", map[string]any{"path": r.path, "error": serr.Error()})
	}
	return err
}

// watchStore publishes list-changed on bus whenever the store files change
// until ctx is done.
func watchStore(ctx context.Context, paths []string, bus *eventbus.Bus) error {
	watcher, err := backend.NewWatcher(paths)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	defer watcher.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if ev.Err != nil {
				logging.Error(fmt.Errorf("store watcher: %w", ev.Err))
				continue
			}
			events.Store.Changed(ev.Path)
			if err := bus.Publish(eventbus.TopicListChanged, nil); err != nil {
				return nil
			}
		}
	}
}
