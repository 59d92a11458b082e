package playback

import (
	"testing"
	"time"

	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineHarness struct {
	clock  *ManualClock
	engine *Engine
	snaps  []Snapshot
}

func newEngineHarness(t *testing.T, c script.Collection, cfg Config) *engineHarness {
	t.Helper()
	h := &engineHarness{clock: NewManualClock()}
	h.engine = New(script.NewStore(c), h.clock, cfg)
	h.engine.OnChange(func(s Snapshot) { h.snaps = append(h.snaps, s) })
	t.Cleanup(h.engine.Teardown)
	return h
}

func (h *engineHarness) at(d time.Duration) Snapshot {
	h.clock.AdvanceTo(d)
	return h.engine.Snapshot()
}

func texts(msgs []script.Message) []string {
	out := []string{}
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func greeting() script.Conversation {
	return conversation("greeting", user("Hi", 0), assistant("Hello", 1500*ms))
}

func TestEngineGreetingScenario(t *testing.T) {
	second := conversation("second", assistant("Anything else?", 500*ms))
	h := newEngineHarness(t, script.Collection{"en": {greeting(), second}}, DefaultConfig())

	h.engine.Start("en")
	start := h.engine.Snapshot()
	assert.Empty(t, start.Visible)
	assert.Equal(t, WindowClosed, start.Window)

	assert.Equal(t, "H", h.at(0).Typed, "typing begins at t=0")
	assert.Equal(t, "Hi", h.at(600*ms).Typed)

	s := h.at(1200 * ms)
	assert.Equal(t, []string{"Hi"}, texts(s.Visible))
	assert.Empty(t, s.Typed)

	s = h.at(1499 * ms)
	assert.Equal(t, []string{"Hi"}, texts(s.Visible))

	s = h.at(1500 * ms)
	assert.Equal(t, []string{"Hi", "Hello"}, texts(s.Visible))

	s = h.at(1500*ms + 4000*ms + 2000*ms - 1)
	assert.Equal(t, 0, s.ConversationIndex)
	assert.Len(t, s.Visible, 2)

	s = h.at(1500*ms + 4000*ms + 2000*ms)
	assert.Equal(t, 1, s.ConversationIndex)
	assert.Equal(t, "second", s.ConversationID)
	assert.Empty(t, s.Visible)
	assert.Equal(t, WindowClosed, s.Window, "advance forces the window closed")
	assert.Greater(t, s.Epoch, start.Epoch)
}

func TestEngineVisibleIsMonotonicWithinEpoch(t *testing.T) {
	conv := conversation("long",
		user("Can you count the walk-in?", 1500*ms),
		assistant("Sure.", 2000*ms),
		assistant("Out of order", 1000*ms),
		user("Thanks", 4000*ms),
		assistant("Done.", 6000*ms),
	)
	h := newEngineHarness(t, script.Collection{"en": {conv}}, DefaultConfig())
	h.engine.Start("en")
	h.clock.Advance(time.Minute)

	require.NotEmpty(t, h.snaps)
	prev := h.snaps[0]
	for _, s := range h.snaps[1:] {
		if s.Epoch == prev.Epoch {
			assert.GreaterOrEqual(t, len(s.Visible), len(prev.Visible))
			assert.Equal(t, texts(prev.Visible), texts(s.Visible[:len(prev.Visible)]), "visible list only grows at the end")
		}
		prev = s
	}
}

func TestEngineFullListAfterLastOffset(t *testing.T) {
	tests := []struct {
		name string
		conv script.Conversation
	}{
		{
			name: "assistant last",
			conv: conversation("c", assistant("Welcome", 0), user("Show me the numbers", 2500*ms), assistant("Here they are", 4000*ms)),
		},
		{
			name: "user last with no room to type",
			conv: conversation("c", assistant("Welcome", 0), assistant("Ask me anything", 1500*ms), user("Prices?", 2000*ms)),
		},
		{
			name: "single user message",
			conv: conversation("c", user("Hi", 300*ms)),
		},
		{
			name: "typing longer than the gap to the next message",
			conv: conversation("c", user("How much walk-in space is left?", 0), assistant("About a third", 500*ms)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newEngineHarness(t, script.Collection{"en": {tt.conv}}, DefaultConfig())
			h.engine.Start("en")

			last := tt.conv.At(tt.conv.Len() - 1).Offset
			if last > 0 {
				assert.Less(t, len(h.at(last-1).Visible), tt.conv.Len())
			}
			s := h.at(last)
			assert.Equal(t, texts(tt.conv.Messages()), texts(s.Visible))
			assert.Empty(t, s.Typed)
		})
	}
}

func TestEngineTypedBufferLifecycle(t *testing.T) {
	conv := conversation("c", user("Hey", 1200*ms), assistant("Hi!", 2000*ms), user("Prices?", 4000*ms))
	h := newEngineHarness(t, script.Collection{"en": {conv}}, DefaultConfig())
	h.engine.Start("en")
	h.clock.AdvanceTo(5000 * ms)

	clears := 0
	prev := h.snaps[0]
	for _, s := range h.snaps[1:] {
		switch {
		case prev.Typed != "" && s.Typed == "":
			clears++
			require.NotEmpty(t, s.Visible)
			last := s.Visible[len(s.Visible)-1]
			assert.True(t, last.IsUser())
			assert.Equal(t, prev.Typed, last.Text, "buffer is complete when the message appears")
			assert.Len(t, s.Visible, len(prev.Visible)+1, "clear and reveal happen in one step")
		case s.Typed != "":
			assert.GreaterOrEqual(t, len(s.Typed), len(prev.Typed))
		}
		prev = s
	}
	assert.Equal(t, 2, clears)
}

func TestEngineLedger(t *testing.T) {
	conv := conversation("docs", addDoc("a"), addDoc("b"), addDoc("c"), assistant("One moment", 0), removeDoc("b"), removeDoc("zzz"))
	h := newEngineHarness(t, script.Collection{"en": {conv}}, DefaultConfig())
	h.engine.Start("en")

	s := h.at(0)
	assert.Equal(t, []string{"a", "c"}, ids(s.Ledger))
	assert.Equal(t, "Doc a", s.Ledger[0].DisplayName)
}

func TestEngineLocaleSwitchCancelsPendingWork(t *testing.T) {
	c := script.Collection{
		"en": {greeting()},
		"es": {conversation("hola", user("Hola", 0), assistant("¿Qué tal?", 3000*ms))},
	}
	h := newEngineHarness(t, c, DefaultConfig())
	h.engine.Start("en")
	h.clock.AdvanceTo(1300 * ms)
	require.Len(t, h.engine.Snapshot().Visible, 1)

	h.engine.SetLocale("es")
	switched := len(h.snaps)
	assert.Equal(t, h.engine.sched.Pending(), h.clock.Pending(), "only the new epoch's callbacks remain armed")

	h.clock.AdvanceTo(10 * time.Second)
	for _, s := range h.snaps[switched:] {
		assert.Equal(t, "es", s.Locale)
		for _, msg := range s.Visible {
			assert.NotEqual(t, "Hello", msg.Text)
			assert.NotEqual(t, "Hi", msg.Text)
		}
	}
	assert.Equal(t, []string{"Hola", "¿Qué tal?"}, texts(h.engine.Snapshot().Visible))
}

func TestEngineRegionalLocaleFallsBack(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"es": {greeting()}}, DefaultConfig())
	h.engine.Start("es_MX")

	s := h.engine.Snapshot()
	assert.False(t, s.Unavailable)
	assert.Equal(t, 1, s.ConversationCount)
}

func TestEngineUnavailableLocale(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, DefaultConfig())
	h.engine.Start("fr")

	s := h.engine.Snapshot()
	assert.True(t, s.Unavailable)
	assert.Equal(t, 0, s.ConversationCount)
	assert.Empty(t, s.Visible)
	assert.NotNil(t, s.Ledger)
	assert.Zero(t, h.clock.Pending())

	h.engine.Advance()
	assert.True(t, h.engine.Snapshot().Unavailable)

	h.engine.SetLocale("en")
	assert.False(t, h.engine.Snapshot().Unavailable)
}

func TestEngineClose(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, DefaultConfig())
	h.engine.Start("en")
	h.engine.Open()
	h.clock.AdvanceTo(1300 * ms)
	require.Equal(t, WindowSmall, h.engine.Snapshot().Window)

	h.engine.Close()
	s := h.engine.Snapshot()
	assert.Equal(t, WindowClosed, s.Window)
	assert.Empty(t, s.Visible)
	assert.Empty(t, s.Typed)
	assert.Zero(t, h.clock.Pending())

	notified := len(h.snaps)
	h.clock.AdvanceTo(time.Minute)
	assert.Len(t, h.snaps, notified, "nothing happens after close")
	assert.Equal(t, WindowClosed, h.engine.Snapshot().Window, "a closed chat is not auto-opened")
}

func TestEngineReopenRestartsConversation(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, DefaultConfig())
	h.engine.Start("en")
	h.clock.AdvanceTo(1300 * ms)
	h.engine.Close()
	epoch := h.engine.Snapshot().Epoch

	h.engine.Open()
	s := h.engine.Snapshot()
	assert.Equal(t, WindowOpening, s.Window)
	assert.Greater(t, s.Epoch, epoch)
	assert.Empty(t, s.Visible)

	h.clock.Advance(1500 * ms)
	s = h.engine.Snapshot()
	assert.Equal(t, []string{"Hi", "Hello"}, texts(s.Visible))
	assert.Equal(t, WindowSmall, s.Window)
}

func TestEngineAutoOpenAndExpand(t *testing.T) {
	conv := conversation("grow", assistant("Quick summary", 1000*ms), script.Message{
		Speaker:      script.SpeakerAssistant,
		Text:         "Full breakdown",
		Offset:       4000 * ms,
		ExpandWindow: true,
		Tag:          "roi",
	})
	h := newEngineHarness(t, script.Collection{"en": {conv}}, DefaultConfig())
	h.engine.Start("en")

	assert.Equal(t, WindowClosed, h.at(2999*ms).Window)
	assert.Equal(t, WindowOpening, h.at(3000*ms).Window)
	assert.Equal(t, WindowSmall, h.at(3350*ms).Window)

	s := h.at(4000 * ms)
	assert.Equal(t, "roi", s.Tag)
	assert.Equal(t, WindowSmall, s.Window)
	assert.Equal(t, DefaultConfig().Window.Small, s.Size)

	s = h.at(4800 * ms)
	assert.Equal(t, WindowLarge, s.Window)
	assert.Equal(t, DefaultConfig().Window.Large, s.Size)

	prev := WindowClosed
	for _, snap := range h.snaps {
		assert.False(t, prev == WindowClosed && snap.Window == WindowSmall)
		prev = snap.Window
	}
}

func TestEngineManualOpenCancelsAutoOpen(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, DefaultConfig())
	h.engine.Start("en")
	h.clock.AdvanceTo(500 * ms)
	h.engine.Open()
	h.clock.AdvanceTo(1000 * ms)
	h.engine.Minimize()
	h.engine.Expand()
	require.Equal(t, WindowLarge, h.engine.Snapshot().Window)

	opens := 0
	for _, s := range h.snaps {
		if s.Window == WindowOpening {
			opens++
		}
	}
	h.clock.AdvanceTo(5 * time.Second)
	for _, s := range h.snaps {
		if s.Window == WindowOpening {
			opens--
		}
	}
	assert.Zero(t, opens, "no second opening after the idle window")
	assert.Equal(t, WindowLarge, h.engine.Snapshot().Window)
}

func TestEngineTagFollowsLastReveal(t *testing.T) {
	first := assistant("Inventory", 100*ms)
	first.Tag = "inventory"
	conv := conversation("tags", first, assistant("untagged", 200*ms))
	h := newEngineHarness(t, script.Collection{"en": {conv}}, DefaultConfig())
	h.engine.Start("en")

	assert.Equal(t, "inventory", h.at(100*ms).Tag)
	assert.Empty(t, h.at(200*ms).Tag)
}

func TestEngineEmptyConversationAdvancesAfterFloor(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {conversation("empty"), greeting()}}, DefaultConfig())
	h.engine.Start("en")

	assert.Equal(t, 0, h.at(999*ms).ConversationIndex)
	assert.Equal(t, 1, h.at(1000*ms).ConversationIndex)
}

func TestEngineCyclesBackToFirst(t *testing.T) {
	one := conversation("one", assistant("1", 0))
	two := conversation("two", assistant("2", 0))
	h := newEngineHarness(t, script.Collection{"en": {one, two}}, DefaultConfig())
	h.engine.Start("en")

	h.engine.Advance()
	assert.Equal(t, "two", h.engine.Snapshot().ConversationID)
	h.engine.Advance()
	assert.Equal(t, "one", h.engine.Snapshot().ConversationID)

	h.clock.Advance(6 * time.Second)
	assert.Equal(t, "two", h.engine.Snapshot().ConversationID)
}

func TestEngineFallbackAvatar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackAvatar = "@"
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, cfg)
	h.engine.Start("en")
	assert.Equal(t, "@", h.engine.Snapshot().Participant.Avatar)

	custom := script.NewConversation("c", "", script.Participant{Name: "Bo", Avatar: "B"}, nil)
	h = newEngineHarness(t, script.Collection{"en": {custom}}, cfg)
	h.engine.Start("en")
	assert.Equal(t, "B", h.engine.Snapshot().Participant.Avatar)
}

func TestEngineTeardown(t *testing.T) {
	h := newEngineHarness(t, script.Collection{"en": {greeting()}}, DefaultConfig())
	h.engine.Start("en")
	h.clock.AdvanceTo(600 * ms)

	h.engine.Teardown()
	assert.Zero(t, h.clock.Pending())
	notified := len(h.snaps)

	h.engine.Open()
	h.engine.SetLocale("en")
	h.engine.Advance()
	h.clock.AdvanceTo(time.Minute)

	assert.Len(t, h.snaps, notified)
	s := h.engine.Snapshot()
	assert.Empty(t, s.Visible)
	assert.Equal(t, WindowClosed, s.Window)
}

func TestEnginesAreIndependent(t *testing.T) {
	c := script.Collection{"en": {greeting()}}
	a := newEngineHarness(t, c, DefaultConfig())
	b := newEngineHarness(t, c, DefaultConfig())
	assert.NotEqual(t, a.engine.ID(), b.engine.ID())

	a.engine.Start("en")
	b.engine.Start("en")
	a.clock.AdvanceTo(2 * time.Second)

	assert.Len(t, a.engine.Snapshot().Visible, 2)
	assert.Empty(t, b.engine.Snapshot().Visible)
}

// handClock records callbacks and lets the test deliver them in any order.
type handClock struct {
	fns     []func()
	stopped map[int]bool
}

type handTimer struct {
	clock *handClock
	index int
}

func (t handTimer) Stop() bool {
	if t.clock.stopped[t.index] {
		return false
	}
	t.clock.stopped[t.index] = true
	return true
}

func (c *handClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.fns = append(c.fns, f)
	return handTimer{clock: c, index: len(c.fns) - 1}
}

func (c *handClock) deliver(i int) {
	if !c.stopped[i] {
		c.stopped[i] = true
		c.fns[i]()
	}
}

func TestEngineRevealsInAuthoredOrderWhenDeliveredOutOfOrder(t *testing.T) {
	tests := []struct {
		name       string
		conv       script.Conversation
		wantTexts  []string
		wantLedger []string
	}{
		{
			name:       "equal offsets",
			conv:       conversation("c", assistant("first", 500*ms), assistant("second", 500*ms)),
			wantTexts:  []string{"first", "second"},
			wantLedger: []string{},
		},
		{
			name:       "remove overtaking its add",
			conv:       conversation("c", addDoc("a"), removeDoc("a")),
			wantTexts:  []string{"", ""},
			wantLedger: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &handClock{stopped: map[int]bool{}}
			engine := New(script.NewStore(script.Collection{"en": {tt.conv}}), clock, DefaultConfig())
			t.Cleanup(engine.Teardown)
			engine.Start("en")

			// The first two callbacks are the two reveals.
			clock.deliver(1)
			s := engine.Snapshot()
			assert.Equal(t, tt.wantTexts, texts(s.Visible))
			assert.Equal(t, tt.wantLedger, ids(s.Ledger))

			clock.deliver(0)
			s = engine.Snapshot()
			assert.Equal(t, tt.wantTexts, texts(s.Visible), "a late reveal for a visible message does nothing")
			assert.Equal(t, tt.wantLedger, ids(s.Ledger))
		})
	}
}

func TestEngineTypingSkippedForVisibleMessage(t *testing.T) {
	clock := &handClock{stopped: map[int]bool{}}
	conv := conversation("c", user("Hi", 0), assistant("Hello", 1500*ms))
	engine := New(script.NewStore(script.Collection{"en": {conv}}), clock, DefaultConfig())
	t.Cleanup(engine.Teardown)
	engine.Start("en")

	// Callbacks: typing for "Hi", reveal "Hi", reveal "Hello".
	clock.deliver(2)
	clock.deliver(0)
	s := engine.Snapshot()
	assert.Equal(t, []string{"Hi", "Hello"}, texts(s.Visible))
	assert.Empty(t, s.Typed)
	assert.Equal(t, -1, engine.typist.Active())
}
