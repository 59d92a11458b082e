package script

import "time"

// Speaker identifies who authored a scripted message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Document is a generated-document badge. It only ever exists as an entry
// derived by folding document payloads over the visible messages.
type Document struct {
	ID          string `yaml:"id" json:"id"`
	Kind        string `yaml:"kind" json:"kind"`
	DisplayName string `yaml:"name" json:"display_name"`
	Format      string `yaml:"format,omitempty" json:"format"`
}

// Payload is the optional structured side effect carried by a message.
// The set of implementations is closed: DocumentAdd, DocumentRemove, Chart,
// CallToAction and Progress.
type Payload interface {
	Kind() string
	isPayload()
}

// DocumentAdd publishes a new document badge.
type DocumentAdd struct {
	Document Document
}

// DocumentRemove withdraws every badge with the given document ID.
type DocumentRemove struct {
	ID string
}

// Chart is a small bar chart rendered inside an assistant bubble.
type Chart struct {
	Title  string    `yaml:"title" json:"title"`
	Unit   string    `yaml:"unit,omitempty" json:"unit,omitempty"`
	Labels []string  `yaml:"labels" json:"labels"`
	Values []float64 `yaml:"values" json:"values"`
}

// CallToAction is a button-like prompt pointing the visitor at a page section.
type CallToAction struct {
	Label  string `yaml:"label" json:"label"`
	Target string `yaml:"target" json:"target"`
}

// Progress is a progress indicator such as "Counting walk-in cooler... 60%".
type Progress struct {
	Label   string  `yaml:"label" json:"label"`
	Percent float64 `yaml:"percent" json:"percent"` // 0-100
}

func (DocumentAdd) Kind() string { return "document" }
func (DocumentRemove) Kind() string { return "remove_document" }
func (Chart) Kind() string { return "chart" }
func (CallToAction) Kind() string { return "cta" }
func (Progress) Kind() string { return "progress" }

func (DocumentAdd) isPayload() {}
func (DocumentRemove) isPayload() {}
func (Chart) isPayload() {}
func (CallToAction) isPayload() {}
func (Progress) isPayload() {}

// Message is one scripted utterance.
type Message struct {
	Speaker      Speaker
	Text         string
	Offset       time.Duration // From conversation start; never negative after load
	Payload      Payload       // nil when the message is plain text
	ExpandWindow bool          // Requests small -> large after the message is revealed
	Tag          string        // Surfaced to the host for concept highlighting
}

// IsUser reports whether the message is typed out by the simulated visitor.
func (m Message) IsUser() bool {
	return m.Speaker == SpeakerUser
}

// Participant is the display metadata of the simulated operator.
type Participant struct {
	Name   string `yaml:"name" json:"name"`
	Avatar string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
}

// Conversation is an ordered, immutable list of messages.
type Conversation struct {
	ID          string
	Title       string
	Participant Participant
	messages    []Message
}

// NewConversation copies msgs so later mutation of the argument has no effect.
func NewConversation(id, title string, participant Participant, msgs []Message) Conversation {
	return Conversation{
		ID:          id,
		Title:       title,
		Participant: participant,
		messages:    append([]Message(nil), msgs...),
	}
}

// Messages returns a copy of the conversation's messages in authored order.
func (c Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Len returns the number of messages.
func (c Conversation) Len() int {
	return len(c.messages)
}

// At returns the i-th message.
func (c Conversation) At(i int) Message {
	return c.messages[i]
}

// Collection maps a locale to its ordered conversations.
type Collection map[string][]Conversation
