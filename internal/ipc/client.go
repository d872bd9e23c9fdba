package ipc

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dialTimeout = 500 * time.Millisecond

// DefaultPath is the bar socket for a tmux server socket, so bars on
// different tmux servers do not collide.
func DefaultPath(tmuxSocket string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("tmux-prompt-bar-%d", os.Getuid()))
	}
	name := "default"
	if tmuxSocket != "" {
		name = strings.NewReplacer("/", "_", ":", "_").Replace(strings.TrimPrefix(tmuxSocket, "/"))
	}
	return filepath.Join(dir, "tmux-prompt-bar", name+".sock")
}

// Send delivers msg to the server at path and waits for its reply.
func Send(ctx context.Context, path string, msg Message) error {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connect %s: %w", path, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	}
	if _, err := fmt.Fprintln(conn, msg.String()); err != nil {
		return fmt.Errorf("send %s: %w", msg, err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "ok" {
		return nil
	}
	return fmt.Errorf("bar rejected %s: %s", msg, strings.TrimPrefix(reply, "err "))
}

// Alive reports whether a server answers on path.
func Alive(path string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	return Send(ctx, path, Message{Kind: Ping}) == nil
}
