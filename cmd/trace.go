package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"
)

// traceEventJSON is the --json form of a trace event; times are milliseconds.
type traceEventJSON struct {
	AtMs   int64  `json:"at_ms"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Tag    string `json:"tag,omitempty"`
}

func NewTraceCmd() *cobra.Command {
	var (
		locale       string
		scripts      string
		conversation int
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the playback timeline of one conversation",
		Long: `Play one conversation on a virtual clock and print every observable
change: typing, reveals, window transitions, ledger updates and the final
advance to the next conversation. Nothing waits in real time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadChatConfig()
			if err != nil {
				return err
			}
			if locale == "" {
				locale = cfg.Locale
			}
			if scripts == "" {
				scripts = cfg.Scripts
			}
			store, err := loadStore(scripts)
			if err != nil {
				return err
			}

			events, err := playback.Trace(store, cfg, locale, conversation-1)
			if err != nil {
				return err
			}

			opts := cli.GetOptions(cmd)
			return writeTrace(os.Stdout, events, opts.JSONOutput)
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale to trace (defaults to the configured locale)")
	cmd.Flags().StringVar(&scripts, "scripts", "", "Script file replacing the builtin scripts of its locale")
	cmd.Flags().IntVarP(&conversation, "conversation", "c", 1, "Conversation number (1-based)")

	return cmd
}

func writeTrace(w io.Writer, events []playback.TraceEvent, jsonOutput bool) error {
	if jsonOutput {
		out := make([]traceEventJSON, 0, len(events))
		for _, ev := range events {
			out = append(out, traceEventJSON{
				AtMs:   ev.At.Milliseconds(),
				Kind:   ev.Kind,
				Detail: ev.Detail,
				Tag:    ev.Tag,
			})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	for _, ev := range events {
		kind := fmt.Sprintf("%-8s", ev.Kind)
		switch ev.Kind {
		case "reveal":
			kind = color.GreenString(kind)
		case "window":
			kind = color.CyanString(kind)
		case "ledger":
			kind = color.YellowString(kind)
		case "advance":
			kind = color.MagentaString(kind)
		case "unavailable":
			kind = color.RedString(kind)
		}
		line := fmt.Sprintf("%8.3fs  %s %s", ev.At.Seconds(), kind, ev.Detail)
		if ev.Tag != "" {
			line += color.HiBlackString("  #" + ev.Tag)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
