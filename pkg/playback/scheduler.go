package playback

import (
	"time"

	"github.com/mattsolo1/grove-chatdemo/pkg/script"
)

// Cue is the effective schedule of one message.
type Cue struct {
	Index       int
	Typing      bool          // User message typed out before it is revealed
	TypingStart time.Duration // Only meaningful when Typing is set
	Reveal      time.Duration
}

// Timeline is the effective schedule of a whole conversation.
type Timeline struct {
	Cues []Cue
	End  time.Duration // When the cycler advances to the next conversation
}

// BuildTimeline computes when each message of conv is typed and revealed.
//
// Reveal times are non-decreasing in authored order: a message authored with
// a smaller offset than its predecessor is revealed late rather than early.
// A user message is typed from max(offset-Typing, previous reveal) and is
// revealed when typing completes, but no later than the offset of the
// message after it, so every message is visible by the last offset. A
// typing phase never starts before the previous message is visible, so at
// most one typing sequence is active at a time.
func BuildTimeline(conv script.Conversation, t Timings) Timeline {
	cues := make([]Cue, conv.Len())
	var prev time.Duration
	for i := range cues {
		msg := conv.At(i)
		nominal := script.ClampOffset(msg.Offset)
		cue := Cue{Index: i, Reveal: max(nominal, prev)}

		if msg.IsUser() && msg.Text != "" && t.Typing > 0 {
			start := max(nominal-t.Typing, prev)
			deadline := nominal
			if i+1 < len(cues) {
				deadline = max(nominal, script.ClampOffset(conv.At(i+1).Offset))
			}
			cue.Reveal = max(cue.Reveal, min(start+t.Typing, deadline))
			if cue.Reveal > start {
				cue.Typing = true
				cue.TypingStart = start
			}
		}

		prev = cue.Reveal
		cues[i] = cue
	}

	end := t.EmptyFloor
	if len(cues) > 0 {
		end = prev + t.Display + t.Pause
	}
	return Timeline{Cues: cues, End: end}
}

// Hooks are the callbacks a scheduler fires for the active conversation.
type Hooks struct {
	BeginTyping func(cue Cue)
	Reveal      func(cue Cue)
	Advance     func()
}

// Scheduler arms delayed tasks on a Clock. Every task is tagged with the
// epoch current when it was armed and does nothing if it fires in a later
// epoch, whether or not the explicit Stop reached it.
type Scheduler struct {
	clock   Clock
	epoch   uint64
	nextID  uint64
	pending map[uint64]Timer
}

// NewScheduler returns a scheduler at epoch zero.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		pending: make(map[uint64]Timer),
	}
}

// Epoch returns the current playback generation.
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// Pending returns the number of tasks armed in the current epoch that have
// not fired yet.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Arm schedules fn after delay under the current epoch.
func (s *Scheduler) Arm(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	epoch := s.epoch
	s.nextID++
	id := s.nextID
	s.pending[id] = s.clock.AfterFunc(delay, func() {
		if epoch != s.epoch {
			return
		}
		delete(s.pending, id)
		fn()
	})
}

// Reset starts a new epoch and stops every task armed in the previous one.
func (s *Scheduler) Reset() {
	s.epoch++
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

// Start resets the scheduler and arms the cues of tl followed by the
// trailing advance task.
func (s *Scheduler) Start(tl Timeline, hooks Hooks) {
	s.Reset()
	for _, cue := range tl.Cues {
		cue := cue
		if cue.Typing && hooks.BeginTyping != nil {
			s.Arm(cue.TypingStart, func() { hooks.BeginTyping(cue) })
		}
		if hooks.Reveal != nil {
			s.Arm(cue.Reveal, func() { hooks.Reveal(cue) })
		}
	}
	if hooks.Advance != nil {
		s.Arm(tl.End, hooks.Advance)
	}
}
