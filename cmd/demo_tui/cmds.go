package demo_tui

import (
	"cmp"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
)

// Message types
type TimerFiredMsg struct{ ID uint64 }

// teaClock runs engine timers through the bubbletea event loop. Each armed
// callback becomes a tea.Tick command; when its TimerFiredMsg arrives, the
// callback runs inside Update, on the same goroutine as every other engine
// call. Ticks race each other in tea.Batch, so a fired timer first runs every
// live timer due at or before it, ordered by due time and then arming order.
type teaClock struct {
	nextID  uint64
	pending map[uint64]*teaTimer
	queued  []tea.Cmd
	now     func() time.Time
}

type teaTimer struct {
	clock *teaClock
	id    uint64
	due   time.Time
	fn    func()
}

func newTeaClock() *teaClock {
	return &teaClock{pending: make(map[uint64]*teaTimer), now: time.Now}
}

func (c *teaClock) AfterFunc(d time.Duration, f func()) playback.Timer {
	c.nextID++
	t := &teaTimer{clock: c, id: c.nextID, due: c.now().Add(d), fn: f}
	c.pending[t.id] = t

	id := t.id
	c.queued = append(c.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return TimerFiredMsg{ID: id}
	}))
	return t
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.clock.pending[t.id]; !ok {
		return false
	}
	delete(t.clock.pending, t.id)
	return true
}

// fire runs the callback for id, preceded by any live timer due no later
// than it. A tick for a stopped or already run timer is dropped here.
func (c *teaClock) fire(id uint64) {
	t, ok := c.pending[id]
	if !ok {
		return
	}

	var due []*teaTimer
	for _, p := range c.pending {
		if !p.due.After(t.due) {
			due = append(due, p)
		}
	}
	slices.SortFunc(due, func(a, b *teaTimer) int {
		if n := a.due.Compare(b.due); n != 0 {
			return n
		}
		return cmp.Compare(a.id, b.id)
	})

	for _, p := range due {
		// An earlier callback may have stopped it.
		if _, ok := c.pending[p.id]; !ok {
			continue
		}
		delete(c.pending, p.id)
		p.fn()
	}
}

// drain returns the ticks armed since the last call as one command.
func (c *teaClock) drain() tea.Cmd {
	if len(c.queued) == 0 {
		return nil
	}
	cmds := c.queued
	c.queued = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of live timers.
func (c *teaClock) Pending() int {
	return len(c.pending)
}
