// Package app assembles the window processes: the bar pane, the editor and
// settings popups, and the one-shot commands tmux key bindings run.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath   string
	DataDir      string
	Backend      store.Backend
	IPCPath      string
	Binary       string
	BarHeight    int
	ShowFooter   bool
	EditorSize   placement.Size
	SettingsSize placement.Size
	LogFile      string
	Trace        bool
}

// childArgs are the flags a spawned window needs to reach the same tmux
// server, store and bar socket as this process.
func (c Config) childArgs() []string {
	args := []string{
		"--socket", c.SocketPath,
		"--data-dir", c.DataDir,
		"--backend", string(c.Backend),
		"--ipc-socket", c.IPCPath,
	}
	if c.LogFile != "" {
		args = append(args, "--log-file", c.LogFile)
	}
	if c.Trace {
		args = append(args, "--trace")
	}
	return args
}

func (c Config) command(sub string, extra ...string) []string {
	out := append([]string{c.Binary, sub}, extra...)
	return append(out, c.childArgs()...)
}

func (c Config) editCommand(index int) []string {
	return c.command("edit", strconv.Itoa(index))
}

func openStore(ctx context.Context, cfg Config) (*store.Store, error) {
	st, err := store.Open(ctx, store.Options{Dir: cfg.DataDir, Backend: cfg.Backend})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logging.Error(fmt.Errorf("close store: %w", err))
	}
}

// runProgram executes a Bubble Tea program, treating a cancelled context as a
// normal exit.
func runProgram(ctx context.Context, model tea.Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
