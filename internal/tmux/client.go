package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
)

var (
	clientMu     sync.Mutex
	cachedClient tmuxClient
	cachedSocket string
)

// Shutdown closes the shared control-mode connection.
func Shutdown() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if cachedClient != nil {
		cachedClient.Close()
	}
	cachedClient = nil
	cachedSocket = ""
}

// ResolveSocketPath picks the tmux server socket: an explicit value first,
// then TMUX_PROMPT_BAR_SOCKET, then the server this process runs under, then
// the default socket location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_PROMPT_BAR_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// CurrentPaneID is the pane this process runs in, empty inside a popup.
func CurrentPaneID() string {
	return strings.TrimSpace(os.Getenv("TMUX_PANE"))
}

// CurrentClientID finds the attached (non control-mode) client showing the
// session this process belongs to, so popups open on the screen the user is
// looking at.
func CurrentClientID(socketPath string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	session := currentSessionName(client)
	clients, err := client.ListClients()
	if err != nil {
		return ""
	}
	for _, c := range clients {
		if c == nil || c.ControlMode || !isValidClientName(c.Name) {
			continue
		}
		if session == "" || c.Session == session {
			return c.Name
		}
	}
	return ""
}

func currentSessionName(client tmuxClient) string {
	target := CurrentPaneID()
	if target == "" {
		// Popups have no pane; the session id is the last field of $TMUX.
		if parts := strings.Split(os.Getenv("TMUX"), ","); len(parts) == 3 && parts[2] != "" {
			target = "$" + parts[2]
		}
	}
	if target == "" {
		return ""
	}
	name, err := client.DisplayMessage(target, "#{session_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

func isValidClientName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
