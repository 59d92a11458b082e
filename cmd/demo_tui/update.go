package demo_tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case TimerFiredMsg:
		m.clock.fire(msg.ID)
		m.syncTranscript()
		return m, m.clock.drain()

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Help.Height = msg.Height
		m.Help, _ = m.Help.Update(msg)
		m.syncTranscript()
		return m, nil

	case tea.KeyMsg:
		if m.Help.ShowAll {
			if key.Matches(msg, m.KeyMap.Help) || key.Matches(msg, m.KeyMap.Quit) {
				m.Help.Toggle()
				return m, nil
			}
			m.Help, cmd = m.Help.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.KeyMap.Quit):
			m.engine.Teardown()
			m.Quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.KeyMap.Help):
			m.Help.Toggle()
			return m, nil

		case key.Matches(msg, m.KeyMap.Open):
			m.engine.Open()

		case key.Matches(msg, m.KeyMap.Close):
			m.engine.Close()

		case key.Matches(msg, m.KeyMap.Expand):
			m.engine.Expand()

		case key.Matches(msg, m.KeyMap.Minimize):
			m.engine.Minimize()

		case key.Matches(msg, m.KeyMap.NextConversation):
			m.engine.Advance()

		case key.Matches(msg, m.KeyMap.NextLocale):
			m.locale = m.nextLocale()
			m.engine.SetLocale(m.locale)

		case key.Matches(msg, m.KeyMap.NextLayout):
			m.layout = m.nextLayout()

		case key.Matches(msg, m.KeyMap.Up), key.Matches(msg, m.KeyMap.Down):
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd

		default:
			return m, nil
		}

		m.syncTranscript()
		return m, m.clock.drain()
	}

	return m, nil
}
