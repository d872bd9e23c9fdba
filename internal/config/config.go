// Package config resolves runtime configuration. Environment variables
// provide defaults that command-line flags override.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/tmux-prompt-bar/internal/app"
	"github.com/atomicstack/tmux-prompt-bar/internal/ipc"
	"github.com/atomicstack/tmux-prompt-bar/internal/placement"
	"github.com/atomicstack/tmux-prompt-bar/internal/store"
	"github.com/atomicstack/tmux-prompt-bar/internal/tmux"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Backend string
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSocketPath     = "TMUX_PROMPT_BAR_SOCKET"
	envDataDir        = "TMUX_PROMPT_BAR_DATA_DIR"
	envBackend        = "TMUX_PROMPT_BAR_BACKEND"
	envIPCSocket      = "TMUX_PROMPT_BAR_IPC_SOCKET"
	envBarHeight      = "TMUX_PROMPT_BAR_HEIGHT"
	envShowFooter     = "TMUX_PROMPT_BAR_FOOTER"
	envEditorWidth    = "TMUX_PROMPT_BAR_EDITOR_WIDTH"
	envEditorHeight   = "TMUX_PROMPT_BAR_EDITOR_HEIGHT"
	envSettingsWidth  = "TMUX_PROMPT_BAR_SETTINGS_WIDTH"
	envSettingsHeight = "TMUX_PROMPT_BAR_SETTINGS_HEIGHT"
	envTrace          = "TMUX_PROMPT_BAR_TRACE"
	envLogFile        = "TMUX_PROMPT_BAR_LOG_FILE"
)

const (
	DefaultBarHeight      = 2
	DefaultEditorWidth    = 64
	DefaultEditorHeight   = 16
	DefaultSettingsWidth  = 80
	DefaultSettingsHeight = 24

	minPopupWidth  = 30
	minPopupHeight = 8
)

var (
	resolveSocket = tmux.ResolveSocketPath
	userConfigDir = os.UserConfigDir
	executable    = os.Executable
)

// LoadEnv returns the defaults for every flag, taken from environ where set.
func LoadEnv(environ []string) Config {
	env := parseEnv(environ)
	return Config{
		App: app.Config{
			SocketPath: envOrDefault(env, envSocketPath, ""),
			DataDir:    envOrDefault(env, envDataDir, ""),
			IPCPath:    envOrDefault(env, envIPCSocket, ""),
			BarHeight:  envOrInt(env, envBarHeight, DefaultBarHeight),
			ShowFooter: envOrBool(env, envShowFooter, false),
			EditorSize: placement.Size{
				Width:  envOrInt(env, envEditorWidth, DefaultEditorWidth),
				Height: envOrInt(env, envEditorHeight, DefaultEditorHeight),
			},
			SettingsSize: placement.Size{
				Width:  envOrInt(env, envSettingsWidth, DefaultSettingsWidth),
				Height: envOrInt(env, envSettingsHeight, DefaultSettingsHeight),
			},
		},
		Backend: envOrDefault(env, envBackend, string(store.BackendJSON)),
		Logging: Logging{
			FilePath: envOrDefault(env, envLogFile, ""),
			Trace:    envOrBool(env, envTrace, false),
		},
	}
}

// Resolve fills every value derived from the parsed flags: the tmux socket,
// the data directory, the bar socket and the path of this binary.
func Resolve(cfg *Config, args []string) error {
	backend, err := store.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}
	cfg.App.Backend = backend

	socket, err := resolveSocket(cfg.App.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	cfg.App.SocketPath = socket

	if strings.TrimSpace(cfg.App.DataDir) == "" {
		dir, err := userConfigDir()
		if err != nil {
			return fmt.Errorf("locate data directory: %w", err)
		}
		cfg.App.DataDir = filepath.Join(dir, "tmux-prompt-bar")
	}
	if strings.TrimSpace(cfg.App.IPCPath) == "" {
		cfg.App.IPCPath = ipc.DefaultPath(socket)
	}
	if cfg.App.Binary == "" {
		exe, err := executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		cfg.App.Binary = exe
	}
	cfg.App.LogFile = cfg.Logging.FilePath
	cfg.App.Trace = cfg.Logging.Trace

	cfg.Flags = map[string]string{
		"socket":     cfg.App.SocketPath,
		"dataDir":    cfg.App.DataDir,
		"backend":    string(cfg.App.Backend),
		"ipcSocket":  cfg.App.IPCPath,
		"barHeight":  strconv.Itoa(cfg.App.BarHeight),
		"footer":     strconv.FormatBool(cfg.App.ShowFooter),
		"editor":     sizeString(cfg.App.EditorSize),
		"settings":   sizeString(cfg.App.SettingsSize),
		"trace":      strconv.FormatBool(cfg.Logging.Trace),
		"logFile":    cfg.Logging.FilePath,
		"executable": cfg.App.Binary,
	}
	cfg.Args = append([]string(nil), args...)
	return nil
}

// Validate rejects sizes tmux cannot honour.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.BarHeight < 1 {
		errs = append(errs, fmt.Errorf("bar height must be >= 1 (got %d)", cfg.App.BarHeight))
	}
	for _, popup := range []struct {
		name string
		size placement.Size
	}{
		{"editor", cfg.App.EditorSize},
		{"settings", cfg.App.SettingsSize},
	} {
		if popup.size.Width < minPopupWidth || popup.size.Height < minPopupHeight {
			errs = append(errs, fmt.Errorf("%s popup must be at least %dx%d (got %s)", popup.name, minPopupWidth, minPopupHeight, sizeString(popup.size)))
		}
	}
	if _, err := store.ParseBackend(cfg.Backend); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func sizeString(s placement.Size) string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
