package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattsolo1/grove-core/logging"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logging.NewLogger("chatdemo.script")

var (
	ErrMissingLocale     = errors.New("script file has no locale")
	ErrUnknownSpeaker    = errors.New("unknown speaker")
	ErrMultiplePayloads  = errors.New("message carries more than one payload")
	ErrMissingDocumentID = errors.New("document payload has no id")
)

// File is the on-disk format of a script file: one locale per file.
type File struct {
	Locale        string             `yaml:"locale" json:"locale"`
	Conversations []ConversationSpec `yaml:"conversations" json:"conversations"`
}

// ConversationSpec is the authored form of a Conversation.
type ConversationSpec struct {
	ID          string        `yaml:"id,omitempty" json:"id,omitempty"`
	Title       string        `yaml:"title,omitempty" json:"title,omitempty"`
	Participant Participant   `yaml:"participant,omitempty" json:"participant,omitempty"`
	Messages    []MessageSpec `yaml:"messages" json:"messages"`
}

// MessageSpec is the authored form of a Message. At most one of the payload
// fields (document, remove_document, chart, cta, progress) may be set.
type MessageSpec struct {
	Speaker        Speaker       `yaml:"speaker" json:"speaker" jsonschema:"enum=user,enum=assistant"`
	Text           string        `yaml:"text,omitempty" json:"text,omitempty"`
	At             Offset        `yaml:"at,omitempty" json:"at,omitempty"`
	Tag            string        `yaml:"tag,omitempty" json:"tag,omitempty"`
	ExpandWindow   bool          `yaml:"expand_window,omitempty" json:"expand_window,omitempty"`
	Document       *Document     `yaml:"document,omitempty" json:"document,omitempty"`
	RemoveDocument string        `yaml:"remove_document,omitempty" json:"remove_document,omitempty"`
	Chart          *Chart        `yaml:"chart,omitempty" json:"chart,omitempty"`
	CTA            *CallToAction `yaml:"cta,omitempty" json:"cta,omitempty"`
	Progress       *Progress     `yaml:"progress,omitempty" json:"progress,omitempty"`
}

// Parse decodes one script file and returns its normalized locale and
// conversations.
func Parse(data []byte) (string, []Conversation, error) {
	f, err := decodeFile(data)
	if err != nil {
		return "", nil, err
	}

	locale := NormalizeLocale(f.Locale)
	if locale == "" {
		return "", nil, ErrMissingLocale
	}

	convs := make([]Conversation, 0, len(f.Conversations))
	for i, spec := range f.Conversations {
		conv, err := spec.build(locale, i)
		if err != nil {
			return "", nil, fmt.Errorf("locale %s conversation %d: %w", locale, i+1, err)
		}
		convs = append(convs, conv)
	}
	return locale, convs, nil
}

// decodeFile decodes a script file, rejecting keys the format does not know.
func decodeFile(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decoding script: %w", err)
	}
	return f, nil
}

func (spec ConversationSpec) build(locale string, index int) (Conversation, error) {
	id := spec.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", locale, index+1)
	}
	if len(spec.Messages) == 0 {
		log.WithField("conversation", id).Warn("Conversation has no messages")
	}

	msgs := make([]Message, 0, len(spec.Messages))
	for i, ms := range spec.Messages {
		msg, err := ms.build()
		if err != nil {
			return Conversation{}, fmt.Errorf("message %d: %w", i+1, err)
		}
		if ms.At.Clamped {
			log.WithFields(logrus.Fields{
				"conversation": id,
				"message":      i + 1,
			}).Debug("Clamped invalid offset to zero")
		}
		msgs = append(msgs, msg)
	}

	return NewConversation(id, spec.Title, spec.Participant, msgs), nil
}

func (ms MessageSpec) build() (Message, error) {
	speaker := Speaker(strings.ToLower(strings.TrimSpace(string(ms.Speaker))))
	if speaker != SpeakerUser && speaker != SpeakerAssistant {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownSpeaker, ms.Speaker)
	}

	var payloads []Payload
	if ms.Document != nil {
		if ms.Document.ID == "" {
			return Message{}, ErrMissingDocumentID
		}
		payloads = append(payloads, DocumentAdd{Document: *ms.Document})
	}
	if ms.RemoveDocument != "" {
		payloads = append(payloads, DocumentRemove{ID: ms.RemoveDocument})
	}
	if ms.Chart != nil {
		payloads = append(payloads, *ms.Chart)
	}
	if ms.CTA != nil {
		payloads = append(payloads, *ms.CTA)
	}
	if ms.Progress != nil {
		payloads = append(payloads, *ms.Progress)
	}
	if len(payloads) > 1 {
		return Message{}, ErrMultiplePayloads
	}

	msg := Message{
		Speaker:      speaker,
		Text:         ms.Text,
		Offset:       ClampOffset(ms.At.D),
		ExpandWindow: ms.ExpandWindow,
		Tag:          ms.Tag,
	}
	if len(payloads) == 1 {
		msg.Payload = payloads[0]
	}
	return msg, nil
}
