package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tmux-prompt-bar/internal/bar"
	"github.com/atomicstack/tmux-prompt-bar/internal/eventbus"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
	tea "github.com/charmbracelet/bubbletea"
)

type stubHost struct {
	mu   sync.Mutex
	keys []string
}

func (s *stubHost) Create(ctx context.Context, key string, cfg window.Config) (*window.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return window.NewHandle(key, fmt.Sprintf("popup-%d", len(s.keys)), cfg), nil
}

func (s *stubHost) Focus(ctx context.Context, h *window.Handle) error { return nil }

func (s *stubHost) Close(ctx context.Context, h *window.Handle) error { return nil }

func (s *stubHost) OuterPosition(ctx context.Context, h *window.Handle) (placement.Point, error) {
	return placement.Point{}, nil
}

func (s *stubHost) ScaleFactor(ctx context.Context, h *window.Handle) (float64, error) {
	return 1, nil
}

func (s *stubHost) created() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

type recordingSink struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSink) Deliver(ctx context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, content)
	return nil
}

func (r *recordingSink) Write(ctx context.Context, content string) error {
	return r.Deliver(ctx, content)
}

func (r *recordingSink) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.Options{Dir: filepath.Join(t.TempDir(), "data")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type barFixture struct {
	ctrl  *bar.Controller
	host  *stubHost
	text  *recordingSink
	clip  *recordingSink
	store *store.Store
}

func newBarFixture(t *testing.T) *barFixture {
	t.Helper()
	f := &barFixture{
		host:  &stubHost{},
		text:  &recordingSink{},
		clip:  &recordingSink{},
		store: openStore(t),
	}
	bus := eventbus.New()
	registry := window.NewRegistry(f.host)
	registry.Adopt(window.NewHandle(window.MainKey, "%1", window.Config{Kind: window.Pane, Index: -1}))
	f.ctrl = bar.New(bar.Config{
		Store:     f.store.Prompts,
		Bus:       bus,
		Windows:   registry,
		Text:      f.text,
		Clipboard: f.clip,
		Editor: func(index int, entry prompt.Entry) window.Config {
			return window.Config{Kind: window.Popup, Title: entry.Title, Size: placement.Size{Width: 60, Height: 12}}
		},
		Settings: func() window.Config {
			return window.Config{Kind: window.Popup, Title: "settings", Size: placement.Size{Width: 70, Height: 20}}
		},
	})
	if err := f.ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(func() {
		f.ctrl.Unmount()
		bus.Close()
	})
	return f
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs a command once and returns its message without following up.
func exec(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// execAll runs cmd, flattening batches, and returns the produced messages.
func execAll(cmd tea.Cmd) []tea.Msg {
	msg := exec(cmd)
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, execAll(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
