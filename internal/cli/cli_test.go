package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/atomicstack/tmux-prompt-bar/internal/app"
	"github.com/atomicstack/tmux-prompt-bar/internal/config"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
)

type call struct {
	name  string
	index int
	cfg   app.Config
	input string
}

func recordingRunner(calls *[]call) Runner {
	record := func(name string, index int, cfg app.Config) {
		*calls = append(*calls, call{name: name, index: index, cfg: cfg})
	}
	return Runner{
		Bar:      func(ctx context.Context, cfg app.Config) error { record("bar", -1, cfg); return nil },
		Editor:   func(ctx context.Context, cfg app.Config, i int) error { record("edit", i, cfg); return nil },
		Settings: func(ctx context.Context, cfg app.Config) error { record("settings", -1, cfg); return nil },
		Hotkey:   func(ctx context.Context, cfg app.Config, i int) error { record("hotkey", i, cfg); return nil },
		Toggle:   func(ctx context.Context, cfg app.Config) error { record("toggle", -1, cfg); return nil },
		Bind:     func(ctx context.Context, cfg app.Config) error { record("bind", -1, cfg); return nil },
		Export: func(ctx context.Context, cfg app.Config, w io.Writer) error {
			record("export", -1, cfg)
			_, err := io.WriteString(w, "prompts: []\n")
			return err
		},
		List: func(ctx context.Context, cfg app.Config, w io.Writer) error {
			record("list", -1, cfg)
			return nil
		},
		Import: func(ctx context.Context, cfg app.Config, r io.Reader) (int, error) {
			data, _ := io.ReadAll(r)
			*calls = append(*calls, call{name: "import", cfg: cfg, input: string(data)})
			return 2, nil
		},
	}
}

func execute(t *testing.T, environ []string, args ...string) ([]call, string, error) {
	t.Helper()
	var calls []call
	root := NewRootCommand(Options{Environ: environ, Runner: recordingRunner(&calls)})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	base := []string{"--socket", "/tmp/tmux-test/default", "--data-dir", t.TempDir(), "--log-file", t.TempDir() + "/test.log"}
	root.SetArgs(append(args, base...))
	err := root.ExecuteContext(context.Background())
	return calls, out.String(), err
}

func TestHotkeyParsesSlot(t *testing.T) {
	calls, _, err := execute(t, []string{}, "hotkey", "3")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "hotkey" || calls[0].index != 3 {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if calls[0].cfg.SocketPath != "/tmp/tmux-test/default" || calls[0].cfg.IPCPath == "" {
		t.Fatalf("expected resolved sockets, got %+v", calls[0].cfg)
	}
}

func TestHotkeyRejectsBadSlots(t *testing.T) {
	for _, arg := range []string{"x", "9", "12"} {
		calls, _, err := execute(t, []string{}, "hotkey", arg)
		if err == nil || len(calls) != 0 {
			t.Fatalf("expected %q to be rejected, got err=%v calls=%v", arg, err, calls)
		}
	}
}

func TestEditPassesIndex(t *testing.T) {
	calls, _, err := execute(t, []string{}, "edit", "5")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "edit" || calls[0].index != 5 {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestBarFlagsOverrideEnvironment(t *testing.T) {
	env := []string{"TMUX_PROMPT_BAR_HEIGHT=4", "TMUX_PROMPT_BAR_BACKEND=sqlite"}
	calls, _, err := execute(t, env, "bar", "--footer")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg := calls[0].cfg
	if cfg.BarHeight != 4 || !cfg.ShowFooter || cfg.Backend != store.BackendSQLite {
		t.Fatalf("expected environment defaults plus flags, got %+v", cfg)
	}
	calls, _, err = execute(t, env, "bar", "--height", "3", "--backend", "json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if calls[0].cfg.BarHeight != 3 || calls[0].cfg.Backend != store.BackendJSON {
		t.Fatalf("expected flags to win, got %+v", calls[0].cfg)
	}
}

func TestInvalidConfigurationStopsCommand(t *testing.T) {
	calls, _, err := execute(t, []string{}, "bar", "--height", "0")
	if err == nil || !strings.Contains(err.Error(), "bar height") {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("runner should not be called, got %+v", calls)
	}
}

func TestImportReadsStdin(t *testing.T) {
	var calls []call
	root := NewRootCommand(Options{Environ: []string{}, Runner: recordingRunner(&calls)})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("prompts:\n  - title: a\n"))
	root.SetArgs([]string{"import", "-", "--socket", "/tmp/s", "--data-dir", t.TempDir(), "--log-file", t.TempDir() + "/l.log"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(calls) != 1 || !strings.Contains(calls[0].input, "title: a") {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if !strings.Contains(out.String(), "imported 2 prompts") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestExportWritesStdout(t *testing.T) {
	_, out, err := execute(t, []string{}, "export")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "prompts: []\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOnStartSeesResolvedConfig(t *testing.T) {
	var seen config.Config
	var calls []call
	root := NewRootCommand(Options{
		Environ: []string{"TMUX_PROMPT_BAR_TRACE=false"},
		Runner:  recordingRunner(&calls),
		OnStart: func(cfg config.Config) { seen = cfg },
	})
	root.SetArgs([]string{"toggle", "--socket", "/tmp/s", "--data-dir", "/tmp/d", "--log-file", t.TempDir() + "/l.log"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if seen.Flags["socket"] != "/tmp/s" || seen.App.DataDir != "/tmp/d" {
		t.Fatalf("unexpected start config %+v", seen)
	}
}

func TestListAlias(t *testing.T) {
	calls, _, err := execute(t, []string{}, "ls")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "list" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}
