package script

import "fmt"

// Issue is a non-fatal problem in a script file. Playback tolerates all of
// them, but they usually mean the author made a mistake.
type Issue struct {
	Conversation string `json:"conversation"`
	Message      int    `json:"message,omitempty"` // 1-based; zero for conversation-level issues
	Problem      string `json:"problem"`
}

func (i Issue) String() string {
	if i.Message == 0 {
		return fmt.Sprintf("%s: %s", i.Conversation, i.Problem)
	}
	return fmt.Sprintf("%s message %d: %s", i.Conversation, i.Message, i.Problem)
}

// Report summarizes a validated script file.
type Report struct {
	Locale        string  `json:"locale"`
	Conversations int     `json:"conversations"`
	Messages      int     `json:"messages"`
	Issues        []Issue `json:"issues"`
}

// Validate parses data like Parse and additionally reports offsets that were
// clamped, offsets that go backwards, document removals that name no
// visible document, and conversations without messages.
func Validate(data []byte) (Report, error) {
	locale, convs, err := Parse(data)
	if err != nil {
		return Report{}, err
	}

	f, err := decodeFile(data)
	if err != nil {
		return Report{}, err
	}

	report := Report{Locale: locale, Conversations: len(convs), Issues: []Issue{}}
	for ci, conv := range convs {
		report.Messages += conv.Len()
		if conv.Len() == 0 {
			report.Issues = append(report.Issues, Issue{Conversation: conv.ID, Problem: "no messages"})
			continue
		}

		docs := map[string]bool{}
		for mi, msg := range conv.Messages() {
			issue := func(format string, args ...any) {
				report.Issues = append(report.Issues, Issue{
					Conversation: conv.ID,
					Message:      mi + 1,
					Problem:      fmt.Sprintf(format, args...),
				})
			}

			if f.Conversations[ci].Messages[mi].At.Clamped {
				issue("invalid offset clamped to 0")
			}
			if mi > 0 && msg.Offset < conv.At(mi-1).Offset {
				issue("offset %s is before the previous message (%s); it will be revealed late",
					msg.Offset, conv.At(mi-1).Offset)
			}

			switch p := msg.Payload.(type) {
			case DocumentAdd:
				docs[p.Document.ID] = true
			case DocumentRemove:
				if !docs[p.ID] {
					issue("removes document %q which is not in the ledger", p.ID)
				}
				delete(docs, p.ID)
			}
		}
	}
	return report, nil
}
