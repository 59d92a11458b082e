package playback

// WindowState is the chat window's visibility and size.
type WindowState int

const (
	WindowClosed WindowState = iota
	WindowOpening
	WindowSmall
	WindowLarge
)

func (s WindowState) String() string {
	switch s {
	case WindowClosed:
		return "closed"
	case WindowOpening:
		return "opening"
	case WindowSmall:
		return "small"
	case WindowLarge:
		return "large"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots serialize the state by name.
func (s WindowState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// windowTransitions lists every legal edge. closed -> small is deliberately
// absent: a window always passes through opening.
var windowTransitions = map[WindowState][]WindowState{
	WindowClosed:  {WindowOpening},
	WindowOpening: {WindowSmall, WindowClosed},
	WindowSmall:   {WindowLarge, WindowClosed},
	WindowLarge:   {WindowSmall, WindowClosed},
}

// Window is the chat window state machine. Its delayed transitions are armed
// on the engine's scheduler, so a reset cancels them along with playback.
type Window struct {
	sched    *Scheduler
	timings  Timings
	onChange func()

	state     WindowState
	gen       uint64 // invalidates opening/expand timers on close
	autoGen   uint64 // invalidates a pending auto-open
	dismissed bool   // visitor closed the chat; no auto-open until they open it
}

// NewWindow returns a closed window.
func NewWindow(sched *Scheduler, timings Timings, onChange func()) *Window {
	return &Window{sched: sched, timings: timings, onChange: onChange}
}

// State returns the current state.
func (w *Window) State() WindowState {
	return w.state
}

// Dismissed reports whether the visitor closed the chat.
func (w *Window) Dismissed() bool {
	return w.dismissed
}

func (w *Window) transition(to WindowState) bool {
	for _, allowed := range windowTransitions[w.state] {
		if allowed == to {
			w.state = to
			if w.onChange != nil {
				w.onChange()
			}
			return true
		}
	}
	return false
}

// Open moves closed -> opening and arms opening -> small. It cancels a
// pending auto-open.
func (w *Window) Open() bool {
	w.dismissed = false
	w.autoGen++
	if !w.transition(WindowOpening) {
		return false
	}
	w.gen++
	gen := w.gen
	w.sched.Arm(w.timings.OpenDelay, func() {
		if gen != w.gen || w.state != WindowOpening {
			return
		}
		w.transition(WindowSmall)
	})
	return true
}

// Close moves any open state to closed on behalf of the visitor and
// suppresses auto-open until the next Open.
func (w *Window) Close() bool {
	w.dismissed = true
	return w.ForceClose()
}

// ForceClose closes the window without marking it dismissed. The cycler uses
// it between conversations.
func (w *Window) ForceClose() bool {
	w.gen++
	w.autoGen++
	if w.state == WindowClosed {
		return false
	}
	return w.transition(WindowClosed)
}

// Expand moves small -> large.
func (w *Window) Expand() bool {
	if w.state != WindowSmall {
		return false
	}
	return w.transition(WindowLarge)
}

// Minimize moves large -> small.
func (w *Window) Minimize() bool {
	if w.state != WindowLarge {
		return false
	}
	return w.transition(WindowSmall)
}

// RequestExpand arms small -> large after the expand pause. It has no effect
// if the window is not small when the pause elapses.
func (w *Window) RequestExpand() {
	gen := w.gen
	w.sched.Arm(w.timings.ExpandPause, func() {
		if gen != w.gen || w.state != WindowSmall {
			return
		}
		w.transition(WindowLarge)
	})
}

// ArmAutoOpen schedules a single closed -> opening nudge after the idle
// window, unless the visitor dismissed the chat.
func (w *Window) ArmAutoOpen() {
	if w.state != WindowClosed || w.dismissed || w.timings.AutoOpenIdle <= 0 {
		return
	}
	w.autoGen++
	autoGen := w.autoGen
	w.sched.Arm(w.timings.AutoOpenIdle, func() {
		if autoGen != w.autoGen || w.state != WindowClosed || w.dismissed {
			return
		}
		log.Debug("Auto-opening chat window")
		w.Open()
	})
}
