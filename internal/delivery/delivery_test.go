package delivery

import (
	"context"
	"errors"
	"testing"
)

func stubPane(t *testing.T, target string, targetErr error) *[]string {
	t.Helper()
	var pasted []string
	prevPaste, prevTarget := pasteText, deliveryTarget
	deliveryTarget = func(socket, exclude string) (string, error) {
		return target, targetErr
	}
	pasteText = func(socket, target, content string, submit bool) error {
		entry := target + "|" + content
		if submit {
			entry += "|enter"
		}
		pasted = append(pasted, entry)
		return nil
	}
	t.Cleanup(func() {
		pasteText = prevPaste
		deliveryTarget = prevTarget
	})
	return &pasted
}

func TestPaneDeliverPastesIntoTarget(t *testing.T) {
	pasted := stubPane(t, "%0", nil)
	submit := true
	p := &Pane{Bar: "%3", Submit: func() bool { return submit }}
	if err := p.Deliver(context.Background(), "hello"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	submit = false
	if err := p.Deliver(context.Background(), "again"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	want := []string{"%0|hello|enter", "%0|again"}
	if len(*pasted) != 2 || (*pasted)[0] != want[0] || (*pasted)[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, *pasted)
	}
}

func TestPaneDeliverWithoutTargetFails(t *testing.T) {
	pasted := stubPane(t, "", errors.New("only the bar"))
	p := &Pane{Bar: "%3"}
	if err := p.Deliver(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error")
	}
	if len(*pasted) != 0 {
		t.Fatalf("expected nothing pasted, got %v", *pasted)
	}
}

func TestPaneDeliverHonoursCancelledContext(t *testing.T) {
	stubPane(t, "%0", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Pane{}).Deliver(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func withClipboard(t *testing.T, unsupported bool, writeErr error) (*[]string, *[]string) {
	t.Helper()
	var system, buffer []string
	prevUnsupported, prevWrite, prevCopy := clipboardUnsupported, writeClipboard, copyToBuffer
	clipboardUnsupported = func() bool { return unsupported }
	writeClipboard = func(s string) error {
		if writeErr != nil {
			return writeErr
		}
		system = append(system, s)
		return nil
	}
	copyToBuffer = func(socket, s string) error {
		buffer = append(buffer, s)
		return nil
	}
	t.Cleanup(func() {
		clipboardUnsupported = prevUnsupported
		writeClipboard = prevWrite
		copyToBuffer = prevCopy
	})
	return &system, &buffer
}

func TestClipboardPrefersSystem(t *testing.T) {
	system, buffer := withClipboard(t, false, nil)
	if err := (SystemClipboard{}).Write(context.Background(), "text"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(*system) != 1 || len(*buffer) != 0 {
		t.Fatalf("expected system clipboard only, got system=%v buffer=%v", *system, *buffer)
	}
}

func TestClipboardFallsBackToTmuxBuffer(t *testing.T) {
	tests := []struct {
		name        string
		unsupported bool
		writeErr    error
	}{
		{"unsupported", true, nil},
		{"write failed", false, errors.New("xclip missing")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buffer := withClipboard(t, tt.unsupported, tt.writeErr)
			if err := (SystemClipboard{}).Write(context.Background(), "text"); err != nil {
				t.Fatalf("write: %v", err)
			}
			if len(*buffer) != 1 || (*buffer)[0] != "text" {
				t.Fatalf("expected tmux buffer fallback, got %v", *buffer)
			}
		})
	}
}
