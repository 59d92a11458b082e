package demo_tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/mattsolo1/grove-chatdemo/pkg/render"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-core/tui/components/help"
)

var log = logging.NewLogger("chatdemo.tui")

var layouts = []playback.Layout{playback.LayoutFloating, playback.LayoutInline, playback.LayoutFullscreen}

// Model hosts one playback engine inside a bubbletea program.
type Model struct {
	engine  *playback.Engine
	clock   *teaClock
	locales []string
	locale  string
	layout  playback.Layout

	Width      int
	Height     int
	KeyMap     KeyMap
	Help       help.Model
	transcript viewport.Model
	shown      int // visible messages rendered into the transcript
	epoch      uint64
	wrapWidth  int
	Quitting   bool
}

// New creates a Model that plays store's conversations for locale. The
// locale is added to the cycle even when the store has no scripts for it, so
// the unavailable placeholder can be shown.
func New(store *script.Store, cfg playback.Config, locale string) Model {
	cfg = cfg.WithDefaults()
	if locale == "" {
		locale = cfg.Locale
	}
	locale = script.NormalizeLocale(locale)

	locales := store.Locales()
	found := false
	for _, l := range locales {
		if l == locale {
			found = true
		}
	}
	if !found {
		locales = append(locales, locale)
	}

	clock := newTeaClock()
	keyMap := NewKeyMap()
	helpModel := help.NewBuilder().
		WithKeys(keyMap).
		WithTitle("Chat Demo - Help").
		Build()

	return Model{
		engine:     playback.New(store, clock, cfg),
		clock:      clock,
		locales:    locales,
		locale:     locale,
		layout:     cfg.Layout,
		Width:      100,
		Height:     30,
		KeyMap:     keyMap,
		Help:       helpModel,
		transcript: viewport.New(cfg.Window.Small.Width, cfg.Window.Small.Height),
	}
}

// Init starts playback. The engine's first timers come back as ticks.
func (m Model) Init() tea.Cmd {
	m.engine.Start(m.locale)
	log.WithField("session", m.engine.ID()).Debug("Chat demo started")
	return m.clock.drain()
}

// Snapshot exposes the engine state for callers embedding the model.
func (m Model) Snapshot() playback.Snapshot {
	return m.engine.Snapshot()
}

// Layout returns the active layout preset.
func (m Model) Layout() playback.Layout {
	return m.layout
}

func (m Model) nextLocale() string {
	for i, l := range m.locales {
		if l == m.locale {
			return m.locales[(i+1)%len(m.locales)]
		}
	}
	return m.locales[0]
}

func (m Model) nextLayout() playback.Layout {
	for i, l := range layouts {
		if l == m.layout {
			return layouts[(i+1)%len(layouts)]
		}
	}
	return layouts[0]
}

// windowSize is the chat window's outer size for the current state and
// layout. The fullscreen layout uses the whole terminal once open.
func (m Model) windowSize(snap playback.Snapshot) playback.Size {
	size := snap.Size
	if m.layout == playback.LayoutFullscreen {
		size = playback.Size{Width: m.Width, Height: m.Height - 1}
	}
	size.Width = max(min(size.Width, m.Width), 20)
	size.Height = max(min(size.Height, m.Height-1), 8)
	return size
}

// syncTranscript re-renders the transcript when the visible messages
// changed and keeps the newest message in view.
func (m *Model) syncTranscript() {
	snap := m.engine.Snapshot()
	size := m.windowSize(snap)

	// border (2) + header (1) + composer (2) + ledger (1)
	m.transcript.Width = size.Width - 2
	m.transcript.Height = max(size.Height-6, 1)

	if snap.Epoch == m.epoch && len(snap.Visible) == m.shown && m.transcript.Width == m.wrapWidth {
		return
	}
	m.epoch = snap.Epoch
	m.shown = len(snap.Visible)
	m.wrapWidth = m.transcript.Width
	m.transcript.SetContent(render.Transcript(snap.Visible, snap.Participant, m.transcript.Width))
	m.transcript.GotoBottom()
}
