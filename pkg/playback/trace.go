package playback

import (
	"fmt"
	"time"

	"github.com/mattsolo1/grove-chatdemo/pkg/script"
)

// TraceEvent is one observable change during a headless run.
type TraceEvent struct {
	At     time.Duration `json:"at"`
	Kind   string        `json:"kind"` // typing, reveal, window, ledger, advance, unavailable
	Detail string        `json:"detail"`
	Tag    string        `json:"tag,omitempty"`
}

// Trace plays conversation index of locale on a virtual clock and records
// every change until the cycler moves on. Typing is reported once per
// message rather than once per rune.
func Trace(store *script.Store, cfg Config, locale string, index int) ([]TraceEvent, error) {
	clock := NewManualClock()
	e := New(store, clock, cfg)
	defer e.Teardown()

	e.Start(locale)
	first := e.Snapshot()
	if first.Unavailable {
		return []TraceEvent{{Kind: "unavailable", Detail: first.Locale}}, nil
	}
	if index < 0 || index >= first.ConversationCount {
		return nil, fmt.Errorf("conversation %d out of range (locale %s has %d)", index, first.Locale, first.ConversationCount)
	}
	for i := 0; i < index; i++ {
		e.Advance()
	}

	conv, _ := e.cycler.Current()
	end := BuildTimeline(conv, e.cfg.Timings()).End

	var events []TraceEvent
	prev := e.Snapshot()
	done := false
	e.OnChange(func(s Snapshot) {
		if done {
			return
		}
		events = append(events, diffSnapshots(clock.Now(), prev, s)...)
		done = s.Epoch != prev.Epoch
		prev = s
	})

	clock.Advance(end)
	return events, nil
}

func diffSnapshots(at time.Duration, prev, next Snapshot) []TraceEvent {
	if next.Epoch != prev.Epoch {
		return []TraceEvent{{At: at, Kind: "advance", Detail: "next conversation"}}
	}

	var events []TraceEvent
	if prev.Typed == "" && next.Typed != "" {
		events = append(events, TraceEvent{At: at, Kind: "typing", Detail: "user is typing"})
	}
	for _, msg := range next.Visible[min(len(prev.Visible), len(next.Visible)):] {
		detail := fmt.Sprintf("%s: %s", msg.Speaker, msg.Text)
		if msg.Payload != nil {
			detail += fmt.Sprintf(" [%s]", msg.Payload.Kind())
		}
		events = append(events, TraceEvent{At: at, Kind: "reveal", Detail: detail, Tag: msg.Tag})
	}
	if next.Window != prev.Window {
		events = append(events, TraceEvent{At: at, Kind: "window", Detail: prev.Window.String() + " -> " + next.Window.String()})
	}
	if ledgerIDs(prev.Ledger) != ledgerIDs(next.Ledger) {
		events = append(events, TraceEvent{At: at, Kind: "ledger", Detail: ledgerIDs(next.Ledger)})
	}
	return events
}

func ledgerIDs(docs []script.Document) string {
	s := ""
	for i, d := range docs {
		if i > 0 {
			s += ","
		}
		s += d.ID
	}
	return "[" + s + "]"
}
