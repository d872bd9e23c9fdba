// Package cli defines the tmux-prompt-bar command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicstack/tmux-prompt-bar/internal/app"
	"github.com/atomicstack/tmux-prompt-bar/internal/config"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging"
	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

// Runner is the application surface the commands call. Tests swap it out.
type Runner struct {
	Bar      func(ctx context.Context, cfg app.Config) error
	Editor   func(ctx context.Context, cfg app.Config, index int) error
	Settings func(ctx context.Context, cfg app.Config) error
	Hotkey   func(ctx context.Context, cfg app.Config, index int) error
	Toggle   func(ctx context.Context, cfg app.Config) error
	Bind     func(ctx context.Context, cfg app.Config) error
	Export   func(ctx context.Context, cfg app.Config, w io.Writer) error
	Import   func(ctx context.Context, cfg app.Config, r io.Reader) (int, error)
	List     func(ctx context.Context, cfg app.Config, w io.Writer) error
}

// DefaultRunner calls into package app.
func DefaultRunner() Runner {
	return Runner{
		Bar:      app.RunBar,
		Editor:   app.RunEditor,
		Settings: app.RunSettings,
		Hotkey:   app.Hotkey,
		Toggle:   app.Toggle,
		Bind:     app.Bind,
		Export:   app.Export,
		Import:   app.Import,
		List:     app.List,
	}
}

// Options configure NewRootCommand.
type Options struct {
	Environ []string
	Runner  Runner
	// OnStart runs once the configuration is resolved, before the command.
	OnStart func(cfg config.Config)
}

// NewRootCommand builds the command tree. Environment variables seed the flag
// defaults.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}
	cfg := config.LoadEnv(opts.Environ)

	root := &cobra.Command{
		Use:           "tmux-prompt-bar",
		Short:         "A bar of canned prompts for tmux",
		Long:          "tmux-prompt-bar shows up to nine prompts in a tmux pane and pastes them into the pane you are working in, from a click or an Alt+digit hotkey.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(&cfg, os.Args[1:]); err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			logging.SetProcess(processName(cmd, args))
			if opts.OnStart != nil {
				opts.OnStart(cfg)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.App.SocketPath, "socket", cfg.App.SocketPath, "path to the tmux socket (overrides environment detection)")
	flags.StringVar(&cfg.App.DataDir, "data-dir", cfg.App.DataDir, "directory holding the prompt and settings documents")
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "document store backend: json or sqlite")
	flags.StringVar(&cfg.App.IPCPath, "ipc-socket", cfg.App.IPCPath, "path of the bar's control socket")
	flags.StringVar(&cfg.Logging.FilePath, "log-file", cfg.Logging.FilePath, "path to the log file")
	flags.BoolVar(&cfg.Logging.Trace, "trace", cfg.Logging.Trace, "enable verbose JSON trace logging")

	runner := opts.Runner
	if runner.Bar == nil {
		runner = DefaultRunner()
	}
	root.AddCommand(
		newBarCommand(&cfg, runner),
		newEditCommand(&cfg, runner),
		newSettingsCommand(&cfg, runner),
		newHotkeyCommand(&cfg, runner),
		newToggleCommand(&cfg, runner),
		newBindCommand(&cfg, runner),
		newExportCommand(&cfg, runner),
		newImportCommand(&cfg, runner),
		newListCommand(&cfg, runner),
	)
	return root
}

// Execute runs the command tree and reports the exit code.
func Execute(ctx context.Context, opts Options) int {
	root := NewRootCommand(opts)
	err := root.ExecuteContext(ctx)
	events.App.Exit(logging.ProcessName(), err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func processName(cmd *cobra.Command, args []string) string {
	if cmd.Name() == "edit" && len(args) == 1 {
		return "edit-" + args[0]
	}
	return cmd.Name()
}
