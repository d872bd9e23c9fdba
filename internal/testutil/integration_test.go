package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBarRendersSlots(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping: builds the binary")
	}
	bin := BuildBinary(t)
	socket, cleanup, logDir := StartTmuxServer(t)
	defer cleanup()
	t.Cleanup(func() {
		AssertNoServerCrash(t, logDir)
	})
	session := "promptbar"
	pane := session + ":0.0"
	work := t.TempDir()
	exitFile := filepath.Join(work, "exit-code")
	scriptPath := filepath.Join(work, "run.sh")
	script := "#!/bin/sh\n" +
		shellQuote(bin) + " bar" +
		" --socket " + shellQuote(socket) +
		" --data-dir " + shellQuote(filepath.Join(work, "data")) +
		" --ipc-socket " + shellQuote(filepath.Join(work, "bar.sock")) +
		" --log-file " + shellQuote(filepath.Join(work, "bar.log")) +
		" > /dev/null 2>&1\n" +
		"printf '%s' $? > " + shellQuote(exitFile) + "\n" +
		"sleep 300\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write launcher script: %v", err)
	}
	if err := tmuxCommand(socket, "new-session", "-d", "-x", "200", "-y", "10", "-s", session, scriptPath).Run(); err != nil {
		t.Fatalf("failed to launch binary: %v", err)
	}
	if err := tmuxCommand(socket, "has-session", "-t", session).Run(); err != nil {
		t.Skipf("skipping: unable to create tmux session: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	WaitForText(t, ctx, socket, pane, exitFile, "Debug Root Cause")

	_ = tmuxCommand(socket, "send-keys", "-t", pane, "q").Run()
	_ = tmuxCommand(socket, "kill-session", "-t", session).Run()
}
