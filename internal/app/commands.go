package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/atomicstack/tmux-prompt-bar/internal/delivery"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/format/table"
	"github.com/atomicstack/tmux-prompt-bar/internal/ipc"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/settings"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
	"github.com/atomicstack/tmux-prompt-bar/internal/tmux"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
)

var (
	barAlive = ipc.Alive

	spawnBar = func(ctx context.Context, cfg Config) error {
		host := tmux.NewHost(cfg.SocketPath, "")
		_, err := host.Create(ctx, window.MainKey, window.Config{
			Kind:    window.Pane,
			Title:   "prompt bar",
			Command: cfg.command("bar"),
			Size:    placement.Size{Height: cfg.BarHeight},
			Index:   -1,
		})
		return err
	}

	newTextDelivery = func(cfg Config, st *store.Store) delivery.Text {
		return &delivery.Pane{
			Socket: cfg.SocketPath,
			Submit: func() bool {
				prefs, err := st.Settings.Load(context.Background())
				return err == nil && prefs.SubmitAfterPaste
			},
		}
	}
)

// Hotkey forwards a slot hotkey to the running bar. With no bar the prompt is
// delivered directly so hotkeys keep working while the bar is hidden.
func Hotkey(ctx context.Context, cfg Config, index int) error {
	events.Action.Hotkey(index)
	if barAlive(cfg.IPCPath) {
		return sendMessage(ctx, cfg.IPCPath, ipc.Message{Kind: ipc.Hotkey, Index: index})
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	list, err := st.Prompts.LoadOrSeed(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	entry, ok := list.Slots().At(index)
	if !ok {
		logging.Trace("hotkey.ignored", map[string]any{"index": index, "prompts": len(list)})
		return nil
	}
	events.Action.Deliver(index, entry.Title)
	if err := newTextDelivery(cfg, st).Deliver(ctx, entry.Content); err != nil {
		return fmt.Errorf("failed to inject prompt %d: %w", index+1, err)
	}
	return nil
}

// Toggle hides a running bar or opens a new one.
func Toggle(ctx context.Context, cfg Config) error {
	if barAlive(cfg.IPCPath) {
		events.Action.Toggle(false)
		return sendMessage(ctx, cfg.IPCPath, ipc.Message{Kind: ipc.Toggle})
	}
	events.Action.Toggle(true)
	if err := spawnBar(ctx, cfg); err != nil {
		return fmt.Errorf("open bar: %w", err)
	}
	return nil
}

// Export writes the prompt list as YAML.
func Export(ctx context.Context, cfg Config, w io.Writer) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	list, err := st.Prompts.LoadOrSeed(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	return store.Export(w, list)
}

// Import replaces the prompt list with a YAML export and tells a running bar.
func Import(ctx context.Context, cfg Config, r io.Reader) (int, error) {
	list, err := store.Import(r)
	if err != nil {
		return 0, err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer closeStore(st)
	bus := eventbus.New()
	defer bus.Close()
	ctrl := settings.New(st.Prompts, st.Settings, relayPublisher{bus: bus, path: cfg.IPCPath}, nil)
	if err := ctrl.Replace(ctx, list); err != nil {
		return 0, err
	}
	return len(ctrl.List()), nil
}

// List prints the prompts with their hotkeys as a table.
func List(ctx context.Context, cfg Config, w io.Writer) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)
	list, err := st.Prompts.LoadOrSeed(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	rows := [][]string{{"#", "HOTKEY", "TITLE", "PROMPT"}}
	for i, entry := range list {
		hotkey := "-"
		if i < prompt.MaxSlots {
			hotkey = fmt.Sprintf("M-%d", i+1)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), hotkey, entry.Title, entry.Content})
	}
	columns := []table.Column{{Align: table.AlignRight}, {}, {Max: 32}, {Max: 60}}
	for _, line := range table.Format(rows, columns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
