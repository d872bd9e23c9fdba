package tmux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/user"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"

	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/window"
)

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	prevClient := cachedClient
	prevSocket := cachedSocket
	cachedClient = nil
	cachedSocket = ""
	newTmux = fn
	t.Cleanup(func() {
		newTmux = prev
		cachedClient = prevClient
		cachedSocket = prevSocket
	})
}

type fakeClient struct {
	mu sync.Mutex

	clients    []*gotmux.Client
	clientsErr error

	displayMessageFn func(target, format string) (string, error)

	commandCalls [][]string
	commandFn    func(args []string) (string, error)
	closed       bool
}

func (f *fakeClient) Command(args ...string) (string, error) {
	f.mu.Lock()
	f.commandCalls = append(f.commandCalls, append([]string(nil), args...))
	fn := f.commandFn
	f.mu.Unlock()
	if fn != nil {
		return fn(args)
	}
	return "", nil
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	if f.displayMessageFn != nil {
		return f.displayMessageFn(target, format)
	}
	return "", errors.New("no display-message stub")
}

func (f *fakeClient) ListClients() ([]*gotmux.Client, error) {
	if f.clientsErr != nil {
		return nil, f.clientsErr
	}
	return f.clients, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.commandCalls...)
}

type fakeCommander struct {
	args   []string
	stdin  string
	runErr error
	wait   chan struct{}
}

func (c *fakeCommander) Run() error { return c.runErr }

func (c *fakeCommander) Output() ([]byte, error) { return nil, c.runErr }

func (c *fakeCommander) Start() error { return c.runErr }

func (c *fakeCommander) SetStdin(r io.Reader) {
	b, _ := io.ReadAll(r)
	c.stdin = string(b)
}

func (c *fakeCommander) Wait() error {
	if c.wait != nil {
		<-c.wait
	}
	return nil
}

func withStubExec(t *testing.T) *[]*fakeCommander {
	t.Helper()
	var mu sync.Mutex
	var cmds []*fakeCommander
	prev := runExecCommand
	runExecCommand = func(name string, args ...string) commander {
		mu.Lock()
		defer mu.Unlock()
		c := &fakeCommander{args: append([]string{name}, args...), wait: make(chan struct{})}
		cmds = append(cmds, c)
		return c
	}
	t.Cleanup(func() { runExecCommand = prev })
	return &cmds
}

func TestCurrentClientIDReturnsNonControlModeClient(t *testing.T) {
	fake := &fakeClient{
		displayMessageFn: func(target, format string) (string, error) {
			if format == "#{session_name}" {
				return "main-session", nil
			}
			return "", fmt.Errorf("unexpected format")
		},
		clients: []*gotmux.Client{
			{Name: "client-12345", ControlMode: true, Session: "main-session"},
			{Name: "/dev/ttys004", ControlMode: false, Session: "main-session"},
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "%5")

	if got := CurrentClientID("/tmp/test.sock"); got != "/dev/ttys004" {
		t.Fatalf("expected /dev/ttys004, got %q", got)
	}
}

func TestCurrentClientIDFallsBackToTMUXEnv(t *testing.T) {
	fake := &fakeClient{
		displayMessageFn: func(target, format string) (string, error) {
			if target == "$3" && format == "#{session_name}" {
				return "popup-session", nil
			}
			return "", fmt.Errorf("unexpected target=%q format=%q", target, format)
		},
		clients: []*gotmux.Client{
			{Name: "/dev/ttys001", ControlMode: false, Session: "other"},
			{Name: "/dev/ttys007", ControlMode: false, Session: "popup-session"},
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "")
	t.Setenv("TMUX", "/tmp/tmux-501/default,12345,3")

	if got := CurrentClientID("/tmp/test.sock"); got != "/dev/ttys007" {
		t.Fatalf("expected /dev/ttys007 via TMUX env fallback, got %q", got)
	}
}

func TestCurrentClientIDSkipsControlModeOnly(t *testing.T) {
	fake := &fakeClient{
		displayMessageFn: func(string, string) (string, error) { return "s", nil },
		clients:          []*gotmux.Client{{Name: "client-1", ControlMode: true, Session: "s"}},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "%0")
	if got := CurrentClientID(""); got != "" {
		t.Fatalf("expected no client, got %q", got)
	}
}

func TestIsValidClientName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid device path", "/dev/ttys004", true},
		{"valid pts path", "/dev/pts/0", true},
		{"empty", "", false},
		{"status line garbage", "[shells] O:zsh, current pane 0", false},
		{"tab character", "/dev/tty\t1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidClientName(tt.input); got != tt.want {
				t.Errorf("isValidClientName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveSocketPathPrecedence(t *testing.T) {
	t.Setenv("TMUX_PROMPT_BAR_SOCKET", "")
	t.Setenv("TMUX", "/tmp/tmux-1000/work,1,2")
	if got, _ := ResolveSocketPath("/explicit"); got != "/explicit" {
		t.Fatalf("expected flag value, got %q", got)
	}
	if got, _ := ResolveSocketPath(""); got != "/tmp/tmux-1000/work" {
		t.Fatalf("expected socket from TMUX, got %q", got)
	}
	t.Setenv("TMUX_PROMPT_BAR_SOCKET", "/env.sock")
	if got, _ := ResolveSocketPath(""); got != "/env.sock" {
		t.Fatalf("expected env socket, got %q", got)
	}
	t.Setenv("TMUX_PROMPT_BAR_SOCKET", "")
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/var/tmp")
	u, err := user.Current()
	if err != nil {
		t.Skipf("no current user: %v", err)
	}
	want := filepath.Join("/var/tmp", "tmux-"+u.Uid, "default")
	if got, _ := ResolveSocketPath(""); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestShellJoinQuotes(t *testing.T) {
	got := shellJoin([]string{"/usr/bin/tmux-prompt-bar", "edit", "--index", "3", "it's"})
	want := `/usr/bin/tmux-prompt-bar edit --index 3 'it'\''s'`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if shellQuote("") != "''" {
		t.Fatalf("expected empty string quoted")
	}
}

func TestListPanesParsesOutput(t *testing.T) {
	fake := &fakeClient{commandFn: func(args []string) (string, error) {
		return "%0 0 0 120 30 0 1\n%1 0 31 120 3 1 0\n", nil
	}}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	panes, err := ListPanes("", "%1")
	if err != nil {
		t.Fatalf("list panes: %v", err)
	}
	want := []Pane{
		{ID: "%0", Left: 0, Top: 0, Width: 120, Height: 30, Last: true},
		{ID: "%1", Left: 0, Top: 31, Width: 120, Height: 3, Active: true},
	}
	if !reflect.DeepEqual(panes, want) {
		t.Fatalf("expected %#v, got %#v", want, panes)
	}
}

func TestDeliveryTargetSkipsBar(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"user pane active", "%0 0 0 80 20 1 0\n%2 0 21 80 3 0 1\n", "%0"},
		{"bar active uses last", "%0 0 0 80 10 0 0\n%1 0 11 80 9 0 1\n%2 0 21 80 3 1 0\n", "%1"},
		{"bar active no last", "%0 0 0 80 20 0 0\n%2 0 21 80 3 1 0\n", "%0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{commandFn: func([]string) (string, error) { return tt.output, nil }}
			withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
			got, err := DeliveryTarget("", "%2")
			if err != nil {
				t.Fatalf("target: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDeliveryTargetAloneFails(t *testing.T) {
	fake := &fakeClient{commandFn: func([]string) (string, error) { return "%2 0 0 80 3 1 0\n", nil }}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if _, err := DeliveryTarget("", "%2"); err == nil {
		t.Fatalf("expected error when only the bar pane exists")
	}
}

func TestPaneOriginAddsTopStatus(t *testing.T) {
	tests := []struct {
		out  string
		want [2]int
	}{
		{"4 10 on bottom", [2]int{4, 10}},
		{"4 10 on top", [2]int{4, 11}},
		{"4 10 2 top", [2]int{4, 12}},
		{"4 10 off top", [2]int{4, 10}},
	}
	for _, tt := range tests {
		fake := &fakeClient{displayMessageFn: func(string, string) (string, error) { return tt.out, nil }}
		withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
		x, y, err := PaneOrigin("", "%1")
		if err != nil {
			t.Fatalf("origin %q: %v", tt.out, err)
		}
		if [2]int{x, y} != tt.want {
			t.Fatalf("origin %q: expected %v, got %d,%d", tt.out, tt.want, x, y)
		}
	}
}

func TestPasteTextLoadsAndPastes(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	cmds := withStubExec(t)
	prevName := bufferName
	bufferName = func() string { return "prompt-bar-test" }
	t.Cleanup(func() { bufferName = prevName })

	if err := PasteText("/tmp/sock", "%0", "line one\nline two", true); err != nil {
		t.Fatalf("paste: %v", err)
	}
	if len(*cmds) != 1 {
		t.Fatalf("expected one load-buffer exec, got %d", len(*cmds))
	}
	load := (*cmds)[0]
	if strings.Join(load.args, " ") != "tmux -S /tmp/sock load-buffer -b prompt-bar-test -" {
		t.Fatalf("unexpected load args %v", load.args)
	}
	if load.stdin != "line one\nline two" {
		t.Fatalf("unexpected buffer content %q", load.stdin)
	}
	want := [][]string{
		{"paste-buffer", "-p", "-d", "-b", "prompt-bar-test", "-t", "%0"},
		{"send-keys", "-t", "%0", "Enter"},
	}
	if got := fake.calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPasteTextCleansUpOnFailure(t *testing.T) {
	fake := &fakeClient{commandFn: func(args []string) (string, error) {
		if args[0] == "paste-buffer" {
			return "", errors.New("can't find pane")
		}
		return "", nil
	}}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	withStubExec(t)
	if err := PasteText("", "%9", "x", false); err == nil {
		t.Fatalf("expected paste error")
	}
	calls := fake.calls()
	if len(calls) != 2 || calls[1][0] != "delete-buffer" {
		t.Fatalf("expected buffer cleanup, got %v", calls)
	}
}

func TestPasteTextRequiresTarget(t *testing.T) {
	if err := PasteText("", " ", "x", false); err == nil {
		t.Fatalf("expected error for empty target")
	}
}

func TestInstallBindings(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	bindings := SlotBindings("/opt/bin/tmux-prompt-bar", 2, "M-Enter")
	if err := InstallBindings("", bindings); err != nil {
		t.Fatalf("install: %v", err)
	}
	want := [][]string{
		{"bind-key", "-n", "M-1", "run-shell", "-b", "/opt/bin/tmux-prompt-bar hotkey 0"},
		{"bind-key", "-n", "M-2", "run-shell", "-b", "/opt/bin/tmux-prompt-bar hotkey 1"},
		{"bind-key", "-n", "M-Enter", "run-shell", "-b", "/opt/bin/tmux-prompt-bar toggle"},
	}
	if got := fake.calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPopupArgsConvertTopToBottomRow(t *testing.T) {
	pos := placement.Point{X: 30, Y: 5}
	args := popupArgs("/dev/pts/1", window.Config{
		Title:    "Edit Prompt 2",
		Size:     placement.Size{Width: 60, Height: 14},
		Position: &pos,
		Command:  []string{"tmux-prompt-bar", "edit", "--index", "1"},
	})
	want := []string{
		"display-popup", "-E", "-c", "/dev/pts/1", "-w", "60", "-h", "14",
		"-T", " Edit Prompt 2 ", "-x", "30", "-y", "19", "tmux-prompt-bar edit --index 1",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestPopupArgsCentredWithoutPosition(t *testing.T) {
	args := popupArgs("", window.Config{Size: placement.Size{Width: 70, Height: 20}, Command: []string{"x"}})
	for _, a := range args {
		if a == "-x" || a == "-y" {
			t.Fatalf("expected host default placement, got %v", args)
		}
	}
}

func TestHostPopupClosesWhenCommandExits(t *testing.T) {
	cmds := withStubExec(t)
	host := NewHost("", "")
	h, err := host.Create(context.Background(), window.SettingsKey, window.Config{Command: []string{"settings"}, Index: -1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.Closed() {
		t.Fatalf("popup closed before its command exited")
	}
	close((*cmds)[0].wait)
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected handle closed after popup exit")
	}
}

func TestHostPaneLifecycle(t *testing.T) {
	var mu sync.Mutex
	alive := true
	fake := &fakeClient{
		commandFn: func(args []string) (string, error) {
			if args[0] == "split-window" {
				return "%7\n", nil
			}
			return "", nil
		},
		displayMessageFn: func(target, format string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if format == "#{pane_id}" && alive {
				return target, nil
			}
			return "", errors.New("can't find pane")
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "%0")
	host := NewHost("", "")
	host.Poll = 5 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := host.Create(ctx, window.MainKey, window.Config{
		Kind:    window.Pane,
		Title:   "prompt-bar",
		Size:    placement.Size{Height: 3},
		Command: []string{"tmux-prompt-bar", "bar"},
		Index:   -1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID != "%7" {
		t.Fatalf("expected pane id %%7, got %q", h.ID)
	}
	split := fake.calls()[0]
	wantSplit := []string{"split-window", "-v", "-f", "-d", "-P", "-F", "#{pane_id}", "-l", "3", "-t", "%0", "tmux-prompt-bar bar"}
	if !reflect.DeepEqual(split, wantSplit) {
		t.Fatalf("expected %v, got %v", wantSplit, split)
	}
	if err := host.Focus(ctx, h); err != nil {
		t.Fatalf("focus: %v", err)
	}
	mu.Lock()
	alive = false
	mu.Unlock()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected pane exit to close handle")
	}
}

func TestHostScaleIsOne(t *testing.T) {
	host := NewHost("", "")
	scale, err := host.ScaleFactor(context.Background(), &window.Handle{})
	if err != nil || scale != 1 {
		t.Fatalf("expected scale 1, got %v %v", scale, err)
	}
}

func TestShutdownClosesClient(t *testing.T) {
	fake := &fakeClient{}
	prevClient := cachedClient
	prevSocket := cachedSocket
	cachedClient = fake
	cachedSocket = "/tmp/test"
	t.Cleanup(func() {
		cachedClient = prevClient
		cachedSocket = prevSocket
	})

	Shutdown()
	if cachedClient != nil || cachedSocket != "" {
		t.Fatalf("expected cache cleared after Shutdown")
	}
	if !fake.closed {
		t.Fatalf("expected client closed")
	}
}
