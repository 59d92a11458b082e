package playback

import (
	"fmt"
	"time"
)

// Layout selects how the host embeds the chat window. The three layouts
// replace what used to be three separate copies of the widget.
type Layout string

const (
	LayoutFloating   Layout = "floating"   // Corner launcher over the landing page
	LayoutInline     Layout = "inline"     // Embedded below a feature section
	LayoutFullscreen Layout = "fullscreen" // Dedicated assistant page
)

// Size is a window preset in terminal cells.
type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// WindowPresets are the sizes of the small and large window states.
type WindowPresets struct {
	Small Size `yaml:"small" json:"small"`
	Large Size `yaml:"large" json:"large"`
}

// Config is the 'chatdemo' section of grove.yml. Zero values fall back to
// DefaultConfig.
type Config struct {
	TypingMs       int           `yaml:"typing_ms" json:"typing_ms,omitempty"`
	DisplayMs      int           `yaml:"display_ms" json:"display_ms,omitempty"`
	PauseMs        int           `yaml:"pause_ms" json:"pause_ms,omitempty"`
	EmptyFloorMs   int           `yaml:"empty_floor_ms" json:"empty_floor_ms,omitempty"`
	OpenDelayMs    int           `yaml:"open_delay_ms" json:"open_delay_ms,omitempty"`
	ExpandPauseMs  int           `yaml:"expand_pause_ms" json:"expand_pause_ms,omitempty"`
	AutoOpenMs     int           `yaml:"auto_open_ms" json:"auto_open_ms,omitempty"` // Negative disables the auto-open nudge
	Layout         Layout        `yaml:"layout" json:"layout,omitempty" jsonschema:"enum=floating,enum=inline,enum=fullscreen"`
	FallbackAvatar string        `yaml:"fallback_avatar" json:"fallback_avatar,omitempty"`
	Window         WindowPresets `yaml:"window" json:"window,omitempty"`
	Locale         string        `yaml:"locale" json:"locale,omitempty"`
	Scripts        string        `yaml:"scripts" json:"scripts,omitempty"` // Optional script file overriding one builtin locale
}

// DefaultConfig returns the stock pacing and presets.
func DefaultConfig() Config {
	return Config{
		TypingMs:       1200,
		DisplayMs:      4000,
		PauseMs:        2000,
		EmptyFloorMs:   1000,
		OpenDelayMs:    350,
		ExpandPauseMs:  800,
		AutoOpenMs:     3000,
		Layout:         LayoutFloating,
		FallbackAvatar: "🤖",
		Window: WindowPresets{
			Small: Size{Width: 46, Height: 14},
			Large: Size{Width: 76, Height: 24},
		},
		Locale: "en",
	}
}

// WithDefaults fills unset or invalid fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&c.TypingMs, def.TypingMs)
	fill(&c.DisplayMs, def.DisplayMs)
	fill(&c.PauseMs, def.PauseMs)
	fill(&c.EmptyFloorMs, def.EmptyFloorMs)
	fill(&c.OpenDelayMs, def.OpenDelayMs)
	fill(&c.ExpandPauseMs, def.ExpandPauseMs)
	if c.AutoOpenMs == 0 {
		c.AutoOpenMs = def.AutoOpenMs
	}

	switch c.Layout {
	case LayoutFloating, LayoutInline, LayoutFullscreen:
	default:
		c.Layout = def.Layout
	}
	if c.FallbackAvatar == "" {
		c.FallbackAvatar = def.FallbackAvatar
	}
	if c.Window.Small.Width <= 0 || c.Window.Small.Height <= 0 {
		c.Window.Small = def.Window.Small
	}
	if c.Window.Large.Width < c.Window.Small.Width || c.Window.Large.Height < c.Window.Small.Height {
		c.Window.Large = def.Window.Large
		if c.Window.Large.Width < c.Window.Small.Width {
			c.Window.Large.Width = c.Window.Small.Width
		}
		if c.Window.Large.Height < c.Window.Small.Height {
			c.Window.Large.Height = c.Window.Small.Height
		}
	}
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	return c
}

// ParseLayout validates a layout name from a flag.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case LayoutFloating, LayoutInline, LayoutFullscreen:
		return l, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want floating, inline or fullscreen)", s)
	}
}

// Timings are the durations that pace playback.
type Timings struct {
	Typing       time.Duration
	Display      time.Duration
	Pause        time.Duration
	EmptyFloor   time.Duration
	OpenDelay    time.Duration
	ExpandPause  time.Duration
	AutoOpenIdle time.Duration
}

// Timings converts the millisecond fields.
func (c Config) Timings() Timings {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	t := Timings{
		Typing:      ms(c.TypingMs),
		Display:     ms(c.DisplayMs),
		Pause:       ms(c.PauseMs),
		EmptyFloor:  ms(c.EmptyFloorMs),
		OpenDelay:   ms(c.OpenDelayMs),
		ExpandPause: ms(c.ExpandPauseMs),
	}
	if c.AutoOpenMs > 0 {
		t.AutoOpenIdle = ms(c.AutoOpenMs)
	}
	return t
}

// SizeFor returns the preset for a window state; closed and opening use the
// small preset.
func (c Config) SizeFor(state WindowState) Size {
	if state == WindowLarge {
		return c.Window.Large
	}
	return c.Window.Small
}
