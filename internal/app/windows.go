package app

import (
	"context"
	"fmt"

	"github.com/atomicstack/tmux-prompt-bar/internal/editor"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/settings"
	"github.com/atomicstack/tmux-prompt-bar/internal/ui"
)

// RunEditor edits the entry at index inside the current popup.
func RunEditor(ctx context.Context, cfg Config, index int) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	bus := eventbus.New()
	defer bus.Close()

	ctrl := editor.New(st.Prompts, relayPublisher{bus: bus, path: cfg.IPCPath}, index, nil)
	model := ui.NewEditorModel(ctx, ctrl, 0, 0)
	return runProgram(ctx, model)
}

// RunSettings shows the settings window inside the current popup.
func RunSettings(ctx context.Context, cfg Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	bus := eventbus.New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := make(chan struct{}, 1)
	scope := bus.NewScope()
	defer scope.Close()
	if err := scope.Subscribe(eventbus.TopicListChanged, func(eventbus.Event) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	go func() {
		if err := watchStore(ctx, st.WatchPaths(), bus); err != nil {
			logging.Error(err)
		}
	}()

	binder := tmuxBinder{socket: cfg.SocketPath, binary: cfg.Binary, args: cfg.childArgs()}
	ctrl := settings.New(st.Prompts, st.Settings, relayPublisher{bus: bus, path: cfg.IPCPath}, binder)
	model := ui.NewSettingsModel(ctx, ctrl, changes, 0, 0)
	if err := runProgram(ctx, model); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
