package playback

import "github.com/mattsolo1/grove-chatdemo/pkg/script"

// BuildLedger folds the visible messages into the current set of generated
// documents. Adds append; a removal drops every entry with its ID and is a
// no-op for an unknown ID. The result keeps first-add order.
func BuildLedger(visible []script.Message) []script.Document {
	ledger := []script.Document{}
	for _, msg := range visible {
		switch p := msg.Payload.(type) {
		case script.DocumentAdd:
			ledger = append(ledger, p.Document)
		case script.DocumentRemove:
			ledger = removeDocument(ledger, p.ID)
		case script.Chart, script.CallToAction, script.Progress, nil:
			// no ledger effect
		}
	}
	return ledger
}

func removeDocument(ledger []script.Document, id string) []script.Document {
	kept := ledger[:0]
	for _, doc := range ledger {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	return kept
}
