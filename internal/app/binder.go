package app

import (
	"context"
	"fmt"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/tmux"
)

var (
	installBindings = tmux.InstallBindings
	unbindKey       = tmux.UnbindKey
)

// tmuxBinder moves the bar toggle to a new key in the tmux root table.
type tmuxBinder struct {
	socket string
	binary string
	args   []string
}

func (b tmuxBinder) Rebind(ctx context.Context, oldKey, newKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if oldKey != "" && oldKey != newKey {
		if err := unbindKey(b.socket, oldKey); err != nil {
			// the old key may never have been bound
			logging.Error(err)
		}
	}
	return install(b.socket, tmux.SlotBindings(b.binary, 0, newKey), b.args)
}

// Bind installs the slot hotkeys and the toggle shortcut from settings.
func Bind(ctx context.Context, cfg Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	prefs, err := st.Settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return install(cfg.SocketPath, tmux.SlotBindings(cfg.Binary, prompt.MaxSlots, prefs.ToggleShortcut), cfg.childArgs())
}

// install appends args to every binding's command so the hotkeys reach the
// same store and bar socket as this process.
func install(socket string, bindings []tmux.Binding, args []string) error {
	for i := range bindings {
		bindings[i].Command = append(bindings[i].Command, args...)
		events.Action.Bind(bindings[i].Key, fmt.Sprint(bindings[i].Command))
	}
	return installBindings(socket, bindings)
}
