package playback

import "github.com/mattsolo1/grove-chatdemo/pkg/script"

// Cycler holds the active position in the current locale's conversation
// list. Every move hands the newly active conversation to restart, which
// tears down and rebuilds the playback pipeline.
type Cycler struct {
	store   *script.Store
	locale  string
	convs   []script.Conversation
	index   int
	restart func(conv script.Conversation, ok bool)
}

// NewCycler returns a cycler with no locale selected.
func NewCycler(store *script.Store, restart func(conv script.Conversation, ok bool)) *Cycler {
	return &Cycler{store: store, restart: restart}
}

// SetLocale switches the conversation list and rewinds to the first entry.
func (c *Cycler) SetLocale(locale string) {
	c.locale = script.NormalizeLocale(locale)
	c.convs = c.store.ConversationsFor(c.locale)
	c.index = 0
	c.Restart()
}

// Advance moves to the next conversation, wrapping at the end of the list.
func (c *Cycler) Advance() {
	if len(c.convs) > 0 {
		c.index = (c.index + 1) % len(c.convs)
	}
	c.Restart()
}

// Restart replays the active conversation from the beginning.
func (c *Cycler) Restart() {
	conv, ok := c.Current()
	c.restart(conv, ok)
}

// Current returns the active conversation; ok is false when the locale has
// no scripts.
func (c *Cycler) Current() (script.Conversation, bool) {
	if len(c.convs) == 0 {
		return script.Conversation{}, false
	}
	return c.convs[c.index], true
}

// Locale returns the selected locale as requested, normalized.
func (c *Cycler) Locale() string {
	return c.locale
}

// Index returns the active position.
func (c *Cycler) Index() int {
	return c.index
}

// Len returns the number of conversations for the locale.
func (c *Cycler) Len() int {
	return len(c.convs)
}
