package demo_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/mattsolo1/grove-chatdemo/pkg/render"
	"github.com/mattsolo1/grove-core/tui/theme"
)

// concept is one section of the landing page the chat talks about. The
// section whose tag matches the last revealed message is highlighted.
type concept struct {
	Tag   string
	Title string
	Body  string
}

var concepts = []concept{
	{Tag: "inventory", Title: "Inventory", Body: "Counts, par levels and supplier credits in one place."},
	{Tag: "recipes", Title: "Recipes", Body: "Costed recipes that update when prices change."},
	{Tag: "roi", Title: "Return on investment", Body: "See what waste and over-ordering cost you each month."},
	{Tag: "assistant", Title: "Assistant", Body: "Ask in plain language, get sheets and reports back."},
}

var (
	pageStyle = lipgloss.NewStyle().Padding(0, 1)

	activeConceptStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("212")).
				PaddingLeft(1)

	conceptStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder(), false, false, false, true).
			PaddingLeft(1)

	windowStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if m.Help.ShowAll {
		return m.Help.View()
	}

	snap := m.engine.Snapshot()
	var body string
	switch m.layout {
	case playback.LayoutFullscreen:
		body = m.renderChat(snap)
		if snap.Window == playback.WindowClosed {
			body = lipgloss.JoinVertical(lipgloss.Left, m.renderPage(snap), body)
		}
	case playback.LayoutInline:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderPage(snap), m.renderChat(snap))
	default:
		chat := lipgloss.PlaceHorizontal(m.Width, lipgloss.Right, m.renderChat(snap))
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderPage(snap), chat)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(snap))
}

func (m Model) renderPage(snap playback.Snapshot) string {
	var b strings.Builder
	b.WriteString(theme.DefaultTheme.Bold.Render("Kitchen OS"))
	b.WriteString("\n\n")
	for _, c := range concepts {
		text := theme.DefaultTheme.Bold.Render(c.Title) + "\n" + theme.DefaultTheme.Muted.Render(c.Body)
		if c.Tag == snap.Tag {
			b.WriteString(activeConceptStyle.Render(text))
		} else {
			b.WriteString(conceptStyle.Render(text))
		}
		b.WriteString("\n")
	}
	return pageStyle.Render(b.String())
}

func (m Model) renderChat(snap playback.Snapshot) string {
	if snap.Window == playback.WindowClosed {
		return theme.DefaultTheme.Info.Render(fmt.Sprintf("%s Chat with us (o)", theme.IconChat))
	}

	size := m.windowSize(snap)
	inner := size.Width - 2

	if snap.Unavailable {
		notice := theme.DefaultTheme.Muted.Render("Chat is temporarily unavailable.")
		return windowStyle.Width(inner).Render(notice)
	}
	if snap.Window == playback.WindowOpening {
		return windowStyle.Width(inner).Render(theme.DefaultTheme.Muted.Render("Connecting…"))
	}

	parts := []string{
		render.Header(snap.Title, snap.Participant, inner),
		m.transcript.View(),
	}
	if ledger := render.Ledger(snap.Ledger, inner); ledger != "" {
		parts = append(parts, ledger)
	}
	parts = append(parts, render.Composer(snap.Typed, inner))

	return windowStyle.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderStatus(snap playback.Snapshot) string {
	conv := "-"
	if snap.ConversationCount > 0 {
		conv = fmt.Sprintf("%d/%d", snap.ConversationIndex+1, snap.ConversationCount)
	}
	status := fmt.Sprintf("locale %s · conversation %s · %s · %s · ? help",
		snap.Locale, conv, snap.Window, m.layout)
	return theme.DefaultTheme.Muted.Render(status)
}
