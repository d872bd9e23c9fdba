package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/tmux-prompt-bar/internal/bar"
	"github.com/atomicstack/tmux-prompt-bar/internal/delivery"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/ipc"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
	"github.com/atomicstack/tmux-prompt-bar/internal/tmux"
	"github.com/atomicstack/tmux-prompt-bar/internal/ui"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrBarRunning is returned when another bar already serves the socket.
var ErrBarRunning = errors.New("prompt bar already running")

// RunBar runs the bar in the current tmux pane until it is hidden.
func RunBar(ctx context.Context, cfg Config) error {
	paneID := tmux.CurrentPaneID()
	if paneID == "" {
		return errors.New("the bar must run inside a tmux pane")
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	bus := eventbus.New()
	defer bus.Close()

	server := ipc.NewServer(cfg.IPCPath, busHandler(bus))
	if err := server.Start(); err != nil {
		if errors.Is(err, ipc.ErrInUse) {
			return ErrBarRunning
		}
		return fmt.Errorf("bar socket: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-gctx.Done()
		return server.Stop()
	})
	group.Go(func() error {
		// without a watcher the bar still hears relayed changes
		if err := watchStore(gctx, st.WatchPaths(), bus); err != nil {
			logging.Error(err)
		}
		return nil
	})

	host := tmux.NewHost(cfg.SocketPath, tmux.CurrentClientID(cfg.SocketPath))
	registry := window.NewRegistry(host)
	registry.Adopt(host.AdoptPane(gctx, window.MainKey, paneID))

	ctrl := bar.New(barConfig(gctx, cfg, st, bus, registry, paneID))
	if err := ctrl.Mount(gctx); err != nil {
		cancel()
		_ = group.Wait()
		return err
	}

	model := ui.NewBarModel(gctx, ctrl, ui.BarOptions{ShowFooter: cfg.ShowFooter})
	runErr := runProgram(gctx, model, tea.WithMouseCellMotion())
	model.Close()

	// Popups belong to this bar; hiding it closes them.
	if err := registry.CloseAll(context.Background(), window.MainKey); err != nil {
		logging.Error(fmt.Errorf("close windows: %w", err))
	}
	ctrl.Unmount()
	cancel()
	if err := group.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func barConfig(ctx context.Context, cfg Config, st *store.Store, bus *eventbus.Bus, registry *window.Registry, paneID string) bar.Config {
	return bar.Config{
		Store:   st.Prompts,
		Bus:     bus,
		Windows: registry,
		Text: &delivery.Pane{
			Socket: cfg.SocketPath,
			Bar:    paneID,
			Submit: func() bool {
				prefs, err := st.Settings.Load(ctx)
				if err != nil {
					logging.Error(fmt.Errorf("load settings: %w", err))
					return false
				}
				return prefs.SubmitAfterPaste
			},
		},
		Clipboard: delivery.SystemClipboard{Socket: cfg.SocketPath},
		Placement: tmux.Placement(),
		Editor: func(index int, entry prompt.Entry) window.Config {
			return window.Config{
				Kind:    window.Popup,
				Title:   fmt.Sprintf("Edit prompt %d", index+1),
				Command: cfg.editCommand(index),
				Size:    cfg.EditorSize,
			}
		},
		Settings: func() window.Config {
			return window.Config{
				Kind:    window.Popup,
				Title:   "Prompt bar settings",
				Command: cfg.command("settings"),
				Size:    cfg.SettingsSize,
			}
		},
	}
}
