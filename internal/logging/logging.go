package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const defaultLogName = "tmux-prompt-bar.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = DefaultPath()
	process      string
)

// DefaultPath is used when no log file is configured. Window processes run in
// panes and popups with unrelated working directories, so the log lives in
// the temp dir rather than next to the binary.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), defaultLogName)
}

// Error appends err to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	f, ferr := openLog()
	if ferr != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", ferr)
		return
	}
	defer f.Close()

	logger := log.New(f, prefix(), log.LstdFlags)
	logger.Println(err)
}

// SetProcess tags every log line with the window kind of this process
// ("bar", "edit-3", "settings", ...).
func SetProcess(name string) {
	mu.Lock()
	process = strings.TrimSpace(name)
	mu.Unlock()
}

// ProcessName returns the tag set by SetProcess.
func ProcessName() string {
	mu.Lock()
	defer mu.Unlock()
	return process
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !traceEnabled {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		PID     int         `json:"pid"`
		Process string      `json:"process,omitempty"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		PID:     os.Getpid(),
		Process: process,
		Event:   event,
		Payload: payload,
	}

	f, err := openLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace logging failed: %v\n", err)
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
	}
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = DefaultPath()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = DefaultPath()
		return
	}
	logPath = path
}

// Path returns the active log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func openLog() (*os.File, error) {
	return os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

func prefix() string {
	if process == "" {
		return fmt.Sprintf("[%d] ", os.Getpid())
	}
	return fmt.Sprintf("[%d %s] ", os.Getpid(), process)
}
