// Package render turns scripted messages and their payloads into terminal
// text for the chat window.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-core/tui/theme"
)

var log = logging.NewLogger("chatdemo.render")

var (
	ErrEmptyChart     = errors.New("chart has no data")
	ErrSeriesMismatch = errors.New("chart labels and values differ in length")
	ErrInvalidValue   = errors.New("chart value is negative or not a number")
	ErrTooNarrow      = errors.New("not enough room to render")
)

const minChartWidth = 16

// Payload renders p for a bubble of the given width. Renderers may fail; a
// panic inside one is converted into an error.
func Payload(p script.Payload, width int) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering %T: %v", p, r)
		}
	}()

	switch p := p.(type) {
	case nil:
		return "", nil
	case script.Chart:
		return Chart(p, width)
	case script.Progress:
		return ProgressBar(p, width), nil
	case script.CallToAction:
		return CallToAction(p), nil
	case script.DocumentAdd:
		return DocumentBadge(p.Document), nil
	case script.DocumentRemove:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported payload %T", p)
	}
}

// SafePayload renders p, substituting the unavailable notice on failure so
// the rest of the conversation keeps rendering.
func SafePayload(p script.Payload, width int) string {
	out, err := Payload(p, width)
	if err != nil {
		log.WithError(err).Debug("Payload render failed")
		return Unavailable(p.Kind())
	}
	return out
}

// Unavailable is the static notice shown in place of a payload that failed
// to render.
func Unavailable(kind string) string {
	return theme.DefaultTheme.Muted.Render(fmt.Sprintf("%s %s unavailable", theme.IconWarning, kind))
}

// Chart draws a horizontal bar chart scaled to the largest value.
func Chart(c script.Chart, width int) (string, error) {
	if len(c.Values) == 0 {
		return "", ErrEmptyChart
	}
	if len(c.Labels) != len(c.Values) {
		return "", ErrSeriesMismatch
	}
	if width < minChartWidth {
		return "", ErrTooNarrow
	}

	labelWidth := 0
	maxValue := 0.0
	for i, v := range c.Values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", ErrInvalidValue
		}
		maxValue = math.Max(maxValue, v)
		labelWidth = max(labelWidth, lipgloss.Width(c.Labels[i]))
	}
	labelWidth = min(labelWidth, width/3)

	valueTexts := make([]string, len(c.Values))
	valueWidth := 0
	for i, v := range c.Values {
		valueTexts[i] = formatValue(v, c.Unit)
		valueWidth = max(valueWidth, len(valueTexts[i]))
	}

	barSpace := width - labelWidth - valueWidth - 2
	if barSpace < 1 {
		return "", ErrTooNarrow
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(theme.DefaultTheme.Bold.Render(c.Title))
		b.WriteString("\n")
	}
	for i, v := range c.Values {
		n := 0
		if maxValue > 0 {
			n = int(math.Round(v / maxValue * float64(barSpace)))
		}
		label := truncate(c.Labels[i], labelWidth)
		fmt.Fprintf(&b, "%-*s %s%s %s",
			labelWidth, label,
			theme.DefaultTheme.Info.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", barSpace-n),
			valueTexts[i])
		if i < len(c.Values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ProgressBar renders a progress indicator with its label above it.
func ProgressBar(p script.Progress, width int) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(max(width, 10)))
	pct := math.Min(math.Max(p.Percent, 0), 100) / 100
	if p.Label == "" {
		return bar.ViewAs(pct)
	}
	return theme.DefaultTheme.Muted.Render(p.Label) + "\n" + bar.ViewAs(pct)
}

// CallToAction renders a button-like prompt.
func CallToAction(c script.CallToAction) string {
	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(theme.DefaultTheme.Success.Render(c.Label + " →"))
	return button
}

// DocumentBadge renders a single generated document.
func DocumentBadge(d script.Document) string {
	name := d.DisplayName
	if name == "" {
		name = d.ID
	}
	if d.Format != "" {
		name += " ." + strings.ToLower(d.Format)
	}
	return theme.DefaultTheme.Info.Render("📄 " + name)
}

func formatValue(v float64, unit string) string {
	s := fmt.Sprintf("%.2f", v)
	if v == math.Trunc(v) {
		s = fmt.Sprintf("%.0f", v)
	}
	switch unit {
	case "":
		return s
	case "$", "€", "£":
		return unit + s
	default:
		return s + " " + unit
	}
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
