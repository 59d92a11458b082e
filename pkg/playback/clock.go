package playback

import (
	"container/heap"
	"time"
)

// Timer is a handle to a callback armed on a Clock.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it had already fired or been stopped.
	Stop() bool
}

// Clock arms delayed callbacks. Implementations must run callbacks on the
// goroutine that owns the engine, never concurrently with it: the engine has
// no locks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ManualClock is a virtual clock. Time only moves when Advance is called and
// callbacks run synchronously, in due-time order, inside Advance.
type ManualClock struct {
	now     time.Duration
	seq     uint64
	pending timerQueue
}

// NewManualClock returns a clock positioned at zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the elapsed virtual time.
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// AfterFunc arms f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{at: c.now + d, seq: c.seq, fn: f}
	heap.Push(&c.pending, t)
	return t
}

// Advance moves time forward by d, firing every callback that falls due.
// Callbacks armed while advancing fire too if they are due before the target.
func (c *ManualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.now + d)
}

// AdvanceTo moves time forward to the absolute instant t.
func (c *ManualClock) AdvanceTo(t time.Duration) {
	for c.pending.Len() > 0 {
		next := c.pending[0]
		if next.at > t {
			break
		}
		heap.Pop(&c.pending)
		if next.stopped {
			continue
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	if t > c.now {
		c.now = t
	}
}

// Pending returns the number of armed callbacks that have not fired or been
// stopped.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

type manualTimer struct {
	at      time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// timerQueue orders timers by due time, then by arming order.
type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*manualTimer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
