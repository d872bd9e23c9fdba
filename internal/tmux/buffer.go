package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var bufferName = func() string {
	return fmt.Sprintf("prompt-bar-%d", time.Now().UnixNano())
}

// PasteText loads content into a throwaway buffer and pastes it into target
// with bracketed paste. When submit is set an Enter key follows.
func PasteText(socketPath, target, content string, submit bool) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("paste target required")
	}
	name := bufferName()
	// load-buffer reads stdin so multi-line content never has to pass through
	// the control-mode command line.
	load := runExecCommand("tmux", append(baseArgs(socketPath), "load-buffer", "-b", name, "-")...)
	load.SetStdin(strings.NewReader(content))
	if _, err := load.Output(); err != nil {
		msg := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(bytes.TrimSpace(exitErr.Stderr)) > 0 {
			msg = string(bytes.TrimSpace(exitErr.Stderr))
		}
		return fmt.Errorf("tmux load-buffer: %s", msg)
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	if _, err := client.Command("paste-buffer", "-p", "-d", "-b", name, "-t", target); err != nil {
		_, _ = client.Command("delete-buffer", "-b", name)
		return fmt.Errorf("tmux paste-buffer: %w", err)
	}
	if submit {
		if _, err := client.Command("send-keys", "-t", target, "Enter"); err != nil {
			return fmt.Errorf("tmux send-keys: %w", err)
		}
	}
	return nil
}

// CopyToBuffer stores content as the top paste buffer and, with -w, forwards
// it to the terminal clipboard.
func CopyToBuffer(socketPath, content string) error {
	load := runExecCommand("tmux", append(baseArgs(socketPath), "load-buffer", "-w", "-")...)
	load.SetStdin(strings.NewReader(content))
	if err := load.Run(); err != nil {
		return fmt.Errorf("tmux load-buffer: %w", err)
	}
	return nil
}
