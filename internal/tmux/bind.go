package tmux

import (
	"fmt"
	"strconv"
	"strings"
)

// Binding maps a root-table key to a shell command run by tmux.
type Binding struct {
	Key     string
	Command []string
}

// SlotBindings returns Alt+1..Alt+slots, each running "<binary> hotkey N",
// plus the bar toggle on toggleKey.
func SlotBindings(binary string, slots int, toggleKey string) []Binding {
	out := make([]Binding, 0, slots+1)
	for i := 1; i <= slots; i++ {
		out = append(out, Binding{
			Key:     "M-" + strconv.Itoa(i),
			Command: []string{binary, "hotkey", strconv.Itoa(i - 1)},
		})
	}
	if strings.TrimSpace(toggleKey) != "" {
		out = append(out, Binding{Key: toggleKey, Command: []string{binary, "toggle"}})
	}
	return out
}

// InstallBindings binds every key in the root table.
func InstallBindings(socketPath string, bindings []Binding) error {
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	for _, b := range bindings {
		if strings.TrimSpace(b.Key) == "" {
			continue
		}
		if _, err := client.Command("bind-key", "-n", b.Key, "run-shell", "-b", shellJoin(b.Command)); err != nil {
			return fmt.Errorf("bind %s: %w", b.Key, err)
		}
	}
	return nil
}

// UnbindKey removes key from the root table.
func UnbindKey(socketPath, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	if _, err := client.Command("unbind-key", "-n", key); err != nil {
		return fmt.Errorf("unbind %s: %w", key, err)
	}
	return nil
}
