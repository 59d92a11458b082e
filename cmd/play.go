package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattsolo1/grove-chatdemo/cmd/demo_tui"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func NewPlayCmd() *cobra.Command {
	var (
		locale  string
		scripts string
		layout  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the scripted chat demo in the terminal",
		Long: `Play the scripted chat demo in the terminal.

The demo cycles through the conversations of one locale. The chat window
opens by itself after a short idle period; use o/x to open or close it,
e/m to resize it and n/l to skip to the next conversation or locale.

Examples:
  chatdemo play
  chatdemo play --locale es --layout inline
  chatdemo play --scripts ./demo/en.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("chatdemo play requires an interactive terminal; use 'chatdemo trace' instead")
			}
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
				color.NoColor = true
			}

			cfg, err := loadChatConfig()
			if err != nil {
				return err
			}
			if layout != "" {
				if cfg.Layout, err = playback.ParseLayout(layout); err != nil {
					return err
				}
			}
			if scripts == "" {
				scripts = cfg.Scripts
			}
			store, err := loadStore(scripts)
			if err != nil {
				return err
			}

			model := demo_tui.New(store, cfg, locale)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("error running chat demo: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale to play (defaults to the configured locale)")
	cmd.Flags().StringVar(&scripts, "scripts", "", "Script file replacing the builtin scripts of its locale")
	cmd.Flags().StringVar(&layout, "layout", "", "Layout preset: floating, inline or fullscreen")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")

	return cmd
}
