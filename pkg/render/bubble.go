package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/muesli/reflow/wordwrap"
)

var (
	userBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	assistantBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// bubble chrome: two border cells plus two padding cells
const bubbleChrome = 4

// Message renders one visible message as a chat bubble. User messages are
// right-aligned, assistant messages are prefixed with the participant's
// avatar. Payloads render below the text inside the same bubble.
func Message(msg script.Message, p script.Participant, width int) string {
	avatar := ""
	if !msg.IsUser() && p.Avatar != "" {
		avatar = p.Avatar + " "
	}
	inner := max(width-bubbleChrome-lipgloss.Width(avatar), 8)
	// leave room so a bubble never spans the full window
	inner = max(inner*4/5, 8)

	var parts []string
	if msg.Text != "" {
		parts = append(parts, wordwrap.String(msg.Text, inner))
	}
	if msg.Payload != nil {
		if body := SafePayload(msg.Payload, inner); body != "" {
			parts = append(parts, body)
		}
	}
	content := strings.Join(parts, "\n")

	if msg.IsUser() {
		box := userBubble.Render(content)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, box)
	}
	box := assistantBubble.Render(content)
	return lipgloss.JoinHorizontal(lipgloss.Top, avatar, box)
}

// Transcript renders every visible message top to bottom.
func Transcript(msgs []script.Message, p script.Participant, width int) string {
	rendered := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		rendered = append(rendered, Message(msg, p, width))
	}
	return strings.Join(rendered, "\n")
}

// Composer renders the input line with whatever the visitor has "typed".
func Composer(typed string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("240")).
		Width(max(width, 1))
	if typed == "" {
		return style.Render(theme.DefaultTheme.Muted.Render("Type a message…"))
	}
	return style.Render(wordwrap.String(typed, max(width-1, 1)) + "▌")
}

// Ledger renders the generated documents as a row of badges. An empty
// ledger renders nothing.
func Ledger(docs []script.Document, width int) string {
	if len(docs) == 0 {
		return ""
	}
	badges := make([]string, 0, len(docs))
	for _, d := range docs {
		badges = append(badges, DocumentBadge(d))
	}
	return lipgloss.NewStyle().Width(max(width, 1)).Render(strings.Join(badges, "  "))
}

// Header renders the window title bar.
func Header(title string, p script.Participant, width int) string {
	name := p.Name
	if name == "" {
		name = "Assistant"
	}
	left := theme.DefaultTheme.Bold.Render(strings.TrimSpace(p.Avatar + " " + name))
	if title == "" {
		return left
	}
	right := theme.DefaultTheme.Muted.Render(title)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}
