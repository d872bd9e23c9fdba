package tmux

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
)

// CellGap separates an anchored popup from its trigger, in rows.
const CellGap = 1

// Host realises windows as tmux panes and popups.
type Host struct {
	socket string
	client string
	// Poll is how often pane windows are checked for exit.
	Poll time.Duration
}

// NewHost binds to the server at socketPath. clientName targets popups at a
// particular attached client; empty lets tmux pick.
func NewHost(socketPath, clientName string) *Host {
	return &Host{socket: socketPath, client: clientName, Poll: 500 * time.Millisecond}
}

// Placement is the engine used for popups anchored to bar slots.
func Placement() placement.Engine {
	return placement.Engine{Gap: CellGap}
}

func (h *Host) Create(ctx context.Context, key string, cfg window.Config) (*window.Handle, error) {
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("window %s has no command", key)
	}
	switch cfg.Kind {
	case window.Pane:
		return h.createPane(ctx, key, cfg)
	default:
		return h.createPopup(ctx, key, cfg)
	}
}

func (h *Host) createPopup(ctx context.Context, key string, cfg window.Config) (*window.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := append(baseArgs(h.socket), popupArgs(h.client, cfg)...)
	cmd := runExecCommand("tmux", args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("display-popup: %w", err)
	}
	handle := window.NewHandle(key, "popup:"+key, cfg)
	go func() {
		// display-popup -E returns once the command inside has exited.
		if err := cmd.Wait(); err != nil {
			logging.Error(fmt.Errorf("popup %s: %w", key, err))
		}
		handle.MarkClosed()
	}()
	return handle, nil
}

func popupArgs(clientName string, cfg window.Config) []string {
	args := []string{"display-popup", "-E"}
	if clientName != "" {
		args = append(args, "-c", clientName)
	}
	if cfg.Size.Width > 0 {
		args = append(args, "-w", strconv.Itoa(cfg.Size.Width))
	}
	if cfg.Size.Height > 0 {
		args = append(args, "-h", strconv.Itoa(cfg.Size.Height))
	}
	if cfg.Title != "" {
		args = append(args, "-T", " "+cfg.Title+" ")
	}
	if cfg.Position != nil {
		// A numeric -y is the row of the popup's bottom edge.
		args = append(args,
			"-x", strconv.Itoa(cfg.Position.X),
			"-y", strconv.Itoa(cfg.Position.Y+cfg.Size.Height),
		)
	}
	return append(args, shellJoin(cfg.Command))
}

func (h *Host) createPane(ctx context.Context, key string, cfg window.Config) (*window.Handle, error) {
	client, err := newTmux(h.socket)
	if err != nil {
		return nil, err
	}
	args := []string{"split-window", "-v", "-f", "-d", "-P", "-F", "#{pane_id}"}
	if cfg.Size.Height > 0 {
		args = append(args, "-l", strconv.Itoa(cfg.Size.Height))
	}
	if target := CurrentPaneID(); target != "" {
		args = append(args, "-t", target)
	}
	args = append(args, shellJoin(cfg.Command))
	out, err := client.Command(args...)
	if err != nil {
		return nil, fmt.Errorf("split-window: %w", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		return nil, fmt.Errorf("split-window returned no pane id")
	}
	if cfg.Title != "" {
		_, _ = client.Command("select-pane", "-t", id, "-T", cfg.Title)
	}
	handle := window.NewHandle(key, id, cfg)
	go h.watchPane(ctx, handle)
	return handle, nil
}

// AdoptPane wraps a pane this process did not create, typically its own.
func (h *Host) AdoptPane(ctx context.Context, key, paneID string) *window.Handle {
	handle := window.NewHandle(key, paneID, window.Config{Kind: window.Pane, Index: -1})
	go h.watchPane(ctx, handle)
	return handle
}

func (h *Host) watchPane(ctx context.Context, handle *window.Handle) {
	ticker := time.NewTicker(h.Poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-handle.Done():
			return
		case <-ticker.C:
			if !PaneAlive(h.socket, handle.ID) {
				handle.MarkClosed()
				return
			}
		}
	}
}

func (h *Host) Focus(ctx context.Context, handle *window.Handle) error {
	if handle.Kind != window.Pane {
		// Popups are modal on their client and already hold focus.
		return nil
	}
	client, err := newTmux(h.socket)
	if err != nil {
		return err
	}
	_, err = client.Command("select-pane", "-t", handle.ID)
	return err
}

func (h *Host) Close(ctx context.Context, handle *window.Handle) error {
	client, err := newTmux(h.socket)
	if err != nil {
		return err
	}
	if handle.Kind == window.Pane {
		_, err = client.Command("kill-pane", "-t", handle.ID)
		return err
	}
	args := []string{"display-popup", "-C"}
	if h.client != "" {
		args = append(args, "-c", h.client)
	}
	_, err = client.Command(args...)
	return err
}

func (h *Host) OuterPosition(ctx context.Context, handle *window.Handle) (placement.Point, error) {
	if handle.Kind != window.Pane {
		return handle.Position, nil
	}
	x, y, err := PaneOrigin(h.socket, handle.ID)
	if err != nil {
		return placement.Point{}, err
	}
	return placement.Point{X: x, Y: y}, nil
}

// ScaleFactor is always 1: a cell is both the logical and physical unit.
func (h *Host) ScaleFactor(ctx context.Context, handle *window.Handle) (float64, error) {
	return 1, nil
}

var _ window.Host = (*Host)(nil)
