package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"
)

// conversationRow is one line of 'scripts list'.
type conversationRow struct {
	Locale   string `json:"locale"`
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Messages int    `json:"messages"`
}

func NewScriptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Inspect and validate conversation scripts",
	}
	cmd.AddCommand(newScriptsListCmd(), newScriptsValidateCmd())
	return cmd
}

func newScriptsListCmd() *cobra.Command {
	var (
		locale  string
		scripts string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the conversations of every locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(scripts)
			if err != nil {
				return err
			}
			rows := listConversations(store, locale)
			if len(rows) == 0 {
				fmt.Println("No conversations found.")
				return nil
			}

			opts := cli.GetOptions(cmd)
			if opts.JSONOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rows)
			}
			writeConversationTable(os.Stdout, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Only list this locale")
	cmd.Flags().StringVar(&scripts, "scripts", "", "Script file replacing the builtin scripts of its locale")
	return cmd
}

func newScriptsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a script file for errors and authoring mistakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script file: %w", err)
			}
			report, err := script.Validate(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			opts := cli.GetOptions(cmd)
			if opts.JSONOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			writeReport(os.Stdout, args[0], report)
			return nil
		},
	}
}

func listConversations(store *script.Store, locale string) []conversationRow {
	locales := store.Locales()
	if locale != "" {
		resolved, ok := store.Resolve(locale)
		if !ok {
			return nil
		}
		locales = []string{resolved}
	}

	var rows []conversationRow
	for _, l := range locales {
		for i, conv := range store.ConversationsFor(l) {
			rows = append(rows, conversationRow{
				Locale:   l,
				Index:    i + 1,
				ID:       conv.ID,
				Title:    conv.Title,
				Messages: conv.Len(),
			})
		}
	}
	return rows
}

func writeConversationTable(w io.Writer, rows []conversationRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\t#\tID\tMESSAGES\tTITLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", r.Locale, r.Index, r.ID, r.Messages, r.Title)
	}
	tw.Flush()
}

func writeReport(w io.Writer, path string, report script.Report) {
	mark := color.GreenString("✓")
	if len(report.Issues) > 0 {
		mark = color.YellowString("⚠")
	}
	fmt.Fprintf(w, "%s %s: locale %s, %d conversations, %d messages\n",
		mark, path, report.Locale, report.Conversations, report.Messages)
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}
