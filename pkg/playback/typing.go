package playback

import "time"

// Typist fills the shared typed buffer one rune at a time to mimic a visitor
// typing a message. Only one sequence is active; starting a new one, Finish
// or Reset supersede any ticks still pending for the old one.
type Typist struct {
	sched    *Scheduler
	onChange func()
	buffer   []rune
	gen      uint64
	active   int
}

// NewTypist returns an idle typist whose ticks are armed on sched.
func NewTypist(sched *Scheduler, onChange func()) *Typist {
	return &Typist{sched: sched, onChange: onChange, active: -1}
}

// Begin starts typing text for the message at index over d. The first rune
// appears immediately and the last one at (n-1)/n of d, so the buffer is
// complete strictly before the message is revealed at d.
func (t *Typist) Begin(index int, text string, d time.Duration) {
	t.gen++
	t.active = index
	t.buffer = t.buffer[:0]

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return
	}
	gen := t.gen
	for k := 1; k <= n; k++ {
		k := k
		at := time.Duration(int64(d) * int64(k-1) / int64(n))
		t.sched.Arm(at, func() {
			if gen != t.gen {
				return
			}
			t.buffer = append(t.buffer[:0], runes[:k]...)
			if t.onChange != nil {
				t.onChange()
			}
		})
	}
}

// Finish ends the sequence for index and clears the buffer. It does not
// notify: the caller reveals the message in the same step.
func (t *Typist) Finish(index int) {
	if t.active != index {
		return
	}
	t.gen++
	t.active = -1
	t.buffer = t.buffer[:0]
}

// Reset abandons any active sequence.
func (t *Typist) Reset() {
	t.gen++
	t.active = -1
	t.buffer = t.buffer[:0]
}

// Buffer returns the typed text so far.
func (t *Typist) Buffer() string {
	return string(t.buffer)
}

// Active returns the index of the message being typed, or -1.
func (t *Typist) Active() int {
	return t.active
}
