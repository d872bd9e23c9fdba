package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atomicstack/tmux-prompt-bar/internal/config"
	"github.com/atomicstack/tmux-prompt-bar/internal/prompt"
)

func newBarCommand(cfg *config.Config, run Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bar",
		Short: "Run the prompt bar in the current pane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Bar(cmd.Context(), cfg.App)
		},
	}
	cmd.Flags().IntVar(&cfg.App.BarHeight, "height", cfg.App.BarHeight, "rows of the bar pane")
	cmd.Flags().BoolVar(&cfg.App.ShowFooter, "footer", cfg.App.ShowFooter, "enable footer hint row")
	cmd.Flags().IntVar(&cfg.App.EditorSize.Width, "editor-width", cfg.App.EditorSize.Width, "editor popup width in cells")
	cmd.Flags().IntVar(&cfg.App.EditorSize.Height, "editor-height", cfg.App.EditorSize.Height, "editor popup height in rows")
	cmd.Flags().IntVar(&cfg.App.SettingsSize.Width, "settings-width", cfg.App.SettingsSize.Width, "settings popup width in cells")
	cmd.Flags().IntVar(&cfg.App.SettingsSize.Height, "settings-height", cfg.App.SettingsSize.Height, "settings popup height in rows")
	return cmd
}

func newEditCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:    "edit <index>",
		Short:  "Edit the prompt at a zero-based index",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return run.Editor(cmd.Context(), cfg.App, index)
		},
	}
}

func newSettingsCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Manage the prompt list and shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Settings(cmd.Context(), cfg.App)
		},
	}
}

func newHotkeyCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "hotkey <slot>",
		Short: "Inject the prompt in a zero-based slot",
		Long:  "Inject the prompt in a zero-based slot. Bound to Alt+1..Alt+9 by the bind command.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if index >= prompt.MaxSlots {
				return fmt.Errorf("slot %d out of range (0-%d)", index, prompt.MaxSlots-1)
			}
			return run.Hotkey(cmd.Context(), cfg.App, index)
		},
	}
}

func newToggleCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Show the bar, or hide it when it is showing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.Toggle(cmd.Context(), cfg.App)
		},
	}
}

func newBindCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "bind",
		Short: "Install the Alt+digit hotkeys and the toggle shortcut in tmux",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run.Bind(cmd.Context(), cfg.App); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ hotkeys installed")
			return nil
		},
	}
}

func newExportCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the prompt list as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-" {
				return run.Export(cmd.Context(), cfg.App, cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := run.Export(cmd.Context(), cfg.App, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newImportCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the prompt list with a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			n, err := run.Import(cmd.Context(), cfg.App, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ imported %d prompts\n", n)
			return nil
		},
	}
}

func newListCommand(cfg *config.Config, run Runner) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the prompts and their hotkeys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.List(cmd.Context(), cfg.App, cmd.OutOrStdout())
		},
	}
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return index, nil
}
