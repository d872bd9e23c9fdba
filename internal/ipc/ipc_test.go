package ipc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func socketPath(t *testing.T) string {
	t.Helper()
	// t.TempDir can exceed the unix socket path limit on some systems.
	dir, err := os.MkdirTemp("", "pb")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "bar.sock")
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		line    string
		want    Message
		wantErr bool
	}{
		{line: "hotkey 3", want: Message{Kind: Hotkey, Index: 3}},
		{line: "  toggle  ", want: Message{Kind: Toggle}},
		{line: "changed", want: Message{Kind: Changed}},
		{line: "ping", want: Message{Kind: Ping}},
		{line: "hotkey", wantErr: true},
		{line: "hotkey x", wantErr: true},
		{line: "toggle now", wantErr: true},
		{line: "reboot", wantErr: true},
		{line: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMessage(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseMessage(%q): expected error", tt.line)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseMessage(%q) = %#v, %v", tt.line, got, err)
		}
		if again, _ := ParseMessage(got.String()); again != got {
			t.Fatalf("String() of %#v does not parse back", got)
		}
	}
}

func TestServerRelaysMessages(t *testing.T) {
	path := socketPath(t)
	var mu sync.Mutex
	var got []Message
	srv := NewServer(path, func(m Message) error {
		mu.Lock()
		got = append(got, m)
		mu.Unlock()
		return nil
	})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop()

	ctx := context.Background()
	for _, m := range []Message{{Kind: Hotkey, Index: 2}, {Kind: Changed}, {Kind: Toggle}} {
		if err := Send(ctx, path, m); err != nil {
			t.Fatalf("send %s: %v", m, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0] != (Message{Kind: Hotkey, Index: 2}) || got[2].Kind != Toggle {
		t.Fatalf("unexpected messages %#v", got)
	}
}

func TestServerReportsHandlerError(t *testing.T) {
	path := socketPath(t)
	srv := NewServer(path, func(Message) error { return errors.New("bus closed") })
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop()
	err := Send(context.Background(), path, Message{Kind: Changed})
	if err == nil || !strings.Contains(err.Error(), "bus closed") {
		t.Fatalf("expected handler error relayed, got %v", err)
	}
}

func TestAliveAndStaleSocket(t *testing.T) {
	path := socketPath(t)
	if Alive(path) {
		t.Fatalf("expected nothing alive before start")
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write stale: %v", err)
	}
	srv := NewServer(path, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start over stale socket: %v", err)
	}
	if !Alive(path) {
		t.Fatalf("expected server alive")
	}
	second := NewServer(path, nil)
	if err := second.Start(); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if Alive(path) {
		t.Fatalf("expected server gone after stop")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected socket file removed, stat err=%v", err)
	}
}

func TestServeStopsWithContext(t *testing.T) {
	path := socketPath(t)
	srv := NewServer(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	deadline := time.Now().Add(2 * time.Second)
	for !Alive(path) {
		if time.Now().After(deadline) {
			t.Fatalf("server never came up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}

func TestDefaultPathPerServer(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	a := DefaultPath("/tmp/tmux-1000/default")
	b := DefaultPath("/tmp/tmux-1000/work")
	if a == b {
		t.Fatalf("expected distinct paths per tmux server")
	}
	if !strings.HasPrefix(a, "/run/user/1000/tmux-prompt-bar/") || !strings.HasSuffix(a, ".sock") {
		t.Fatalf("unexpected path %s", a)
	}
}
