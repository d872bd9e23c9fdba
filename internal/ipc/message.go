package ipc

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the verb of a relayed message.
type Kind string

const (
	Hotkey  Kind = "hotkey"
	Toggle  Kind = "toggle"
	Changed Kind = "changed"
	Ping    Kind = "ping"
)

// Message is one line of the socket protocol.
type Message struct {
	Kind  Kind
	Index int
}

func (m Message) String() string {
	if m.Kind == Hotkey {
		return fmt.Sprintf("%s %d", m.Kind, m.Index)
	}
	return string(m.Kind)
}

// ParseMessage decodes a protocol line.
func ParseMessage(line string) (Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{}, fmt.Errorf("empty message")
	}
	kind := Kind(fields[0])
	switch kind {
	case Hotkey:
		if len(fields) != 2 {
			return Message{}, fmt.Errorf("hotkey needs a slot index: %q", line)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return Message{}, fmt.Errorf("bad slot index %q: %w", fields[1], err)
		}
		return Message{Kind: Hotkey, Index: idx}, nil
	case Toggle, Changed, Ping:
		if len(fields) != 1 {
			return Message{}, fmt.Errorf("%s takes no arguments: %q", kind, line)
		}
		return Message{Kind: kind}, nil
	default:
		return Message{}, fmt.Errorf("unknown message %q", fields[0])
	}
}
