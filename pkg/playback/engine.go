package playback

import (
	"github.com/google/uuid"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/logging"
	"github.com/sirupsen/logrus"
)

var log = logging.NewLogger("chatdemo.playback")

// Snapshot is everything a host needs to render the chat.
type Snapshot struct {
	SessionID         string             `json:"session_id"`
	Epoch             uint64             `json:"epoch"`
	Locale            string             `json:"locale"`
	ConversationIndex int                `json:"conversation_index"`
	ConversationCount int                `json:"conversation_count"`
	ConversationID    string             `json:"conversation_id,omitempty"`
	Title             string             `json:"title,omitempty"`
	Participant       script.Participant `json:"participant"`
	Visible           []script.Message   `json:"-"`
	Typed             string             `json:"typed,omitempty"`
	Ledger            []script.Document  `json:"ledger"`
	Window            WindowState        `json:"window"`
	Size              Size               `json:"size"`
	Layout            Layout             `json:"layout"`
	Tag               string             `json:"tag,omitempty"`
	Unavailable       bool               `json:"unavailable,omitempty"`
}

// Engine replays scripted conversations. It is single-threaded: every method
// and every Clock callback must run on the same goroutine.
type Engine struct {
	id     string
	cfg    Config
	sched  *Scheduler
	typist *Typist
	window *Window
	cycler *Cycler
	logger *logrus.Entry

	conv        script.Conversation
	visible     []script.Message
	tag         string
	playing     bool
	unavailable bool
	tornDown    bool
	onChange    func(Snapshot)
}

// New wires an engine around store. Playback does not begin until Start.
func New(store *script.Store, clock Clock, cfg Config) *Engine {
	cfg = cfg.WithDefaults()
	e := &Engine{
		id:  uuid.New().String(),
		cfg: cfg,
	}
	e.logger = log.WithField("session", e.id[:8])
	e.sched = NewScheduler(clock)
	e.typist = NewTypist(e.sched, e.notify)
	e.window = NewWindow(e.sched, cfg.Timings(), e.notify)
	e.cycler = NewCycler(store, e.restart)
	return e
}

// OnChange registers the observer called after every observable change.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.onChange = fn
}

// ID returns the engine's session ID.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start begins playback of the first conversation for locale.
func (e *Engine) Start(locale string) {
	if e.tornDown {
		return
	}
	e.cycler.SetLocale(locale)
}

// SetLocale switches locale mid-playback. Everything scheduled for the old
// locale is cancelled before the first conversation of the new one starts.
func (e *Engine) SetLocale(locale string) {
	if e.tornDown {
		return
	}
	e.logger.WithField("locale", locale).Debug("Switching locale")
	e.cycler.SetLocale(locale)
}

// Advance skips to the next conversation.
func (e *Engine) Advance() {
	if e.tornDown {
		return
	}
	e.cycler.Advance()
}

// Open is the visitor opening the chat. A chat closed by the visitor
// resumes from the start of the active conversation.
func (e *Engine) Open() {
	if e.tornDown || e.window.State() != WindowClosed {
		return
	}
	if !e.playing && !e.unavailable {
		e.cycler.Restart()
	}
	e.window.Open()
}

// Close is the visitor closing the chat: playback stops and every pending
// callback is cancelled.
func (e *Engine) Close() {
	if e.tornDown {
		return
	}
	e.stop()
	e.window.Close()
	e.notify()
}

// Expand is the visitor enlarging the window.
func (e *Engine) Expand() {
	if e.tornDown {
		return
	}
	e.window.Expand()
}

// Minimize is the visitor shrinking the window.
func (e *Engine) Minimize() {
	if e.tornDown {
		return
	}
	e.window.Minimize()
}

// Teardown cancels everything. No callback has an observable effect
// afterwards and all intents become no-ops.
func (e *Engine) Teardown() {
	if e.tornDown {
		return
	}
	e.stop()
	e.tornDown = true
	e.onChange = nil
	e.logger.Debug("Engine torn down")
}

func (e *Engine) stop() {
	e.sched.Reset()
	e.typist.Reset()
	e.visible = nil
	e.tag = ""
	e.playing = false
}

// restart is the cycler's hook: reset, force the window closed, then start
// conv and re-arm the auto-open nudge.
func (e *Engine) restart(conv script.Conversation, ok bool) {
	e.stop()
	e.window.ForceClose()

	if !ok {
		e.unavailable = true
		e.conv = script.Conversation{}
		e.logger.WithField("locale", e.cycler.Locale()).Warn("No scripts for locale")
		e.notify()
		return
	}

	e.unavailable = false
	e.conv = conv
	e.playing = true

	tl := BuildTimeline(conv, e.cfg.Timings())
	e.sched.Start(tl, Hooks{
		BeginTyping: e.beginTyping,
		Reveal:      e.reveal,
		Advance:     e.advance,
	})
	e.window.ArmAutoOpen()

	e.logger.WithFields(logrus.Fields{
		"epoch":        e.sched.Epoch(),
		"conversation": conv.ID,
		"messages":     conv.Len(),
		"ends_at":      tl.End.String(),
	}).Debug("Started conversation")
	e.notify()
}

func (e *Engine) beginTyping(cue Cue) {
	if cue.Index < len(e.visible) {
		return
	}
	e.typist.Begin(cue.Index, e.conv.At(cue.Index).Text, cue.Reveal-cue.TypingStart)
}

// reveal makes every message up to cue.Index visible in authored order. A
// cue whose message is already visible does nothing, so reveals delivered
// out of order by the clock still produce the authored sequence.
func (e *Engine) reveal(cue Cue) {
	if cue.Index < len(e.visible) {
		return
	}
	for i := len(e.visible); i <= cue.Index; i++ {
		msg := e.conv.At(i)
		e.typist.Finish(i)
		e.visible = append(e.visible, msg)
		e.tag = msg.Tag
		if msg.ExpandWindow {
			e.window.RequestExpand()
		}
	}
	e.notify()
}

func (e *Engine) advance() {
	e.logger.WithField("epoch", e.sched.Epoch()).Debug("Conversation finished")
	e.cycler.Advance()
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange(e.Snapshot())
	}
}

// Snapshot returns the current observable state. The ledger is rebuilt from
// the visible messages on every call.
func (e *Engine) Snapshot() Snapshot {
	visible := append([]script.Message(nil), e.visible...)
	participant := e.conv.Participant
	if participant.Avatar == "" {
		participant.Avatar = e.cfg.FallbackAvatar
	}
	state := e.window.State()
	return Snapshot{
		SessionID:         e.id,
		Epoch:             e.sched.Epoch(),
		Locale:            e.cycler.Locale(),
		ConversationIndex: e.cycler.Index(),
		ConversationCount: e.cycler.Len(),
		ConversationID:    e.conv.ID,
		Title:             e.conv.Title,
		Participant:       participant,
		Visible:           visible,
		Typed:             e.typist.Buffer(),
		Ledger:            BuildLedger(visible),
		Window:            state,
		Size:              e.cfg.SizeFor(state),
		Layout:            e.cfg.Layout,
		Tag:               e.tag,
		Unavailable:       e.unavailable,
	}
}
