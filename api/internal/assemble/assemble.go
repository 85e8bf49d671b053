// Package assemble renders manual pages and conversation history into the
// plain-text blocks the model prompt is built from.
package assemble

import (
	"fmt"
	"strings"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

// HistoryWindow caps how many recent turns enter the prompt. Older turns stay
// in the session for display but are excluded from model context.
const HistoryWindow = 10

// ManualContext renders one labeled block per page, blank-line separated, in
// stored order.
func ManualContext(pages []manualstore.Page) string {
	blocks := make([]string, 0, len(pages))
	for _, p := range pages {
		blocks = append(blocks, fmt.Sprintf("Page %d:\n%s", p.Number, p.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Transcript renders the most recent turns as prefixed lines, chronological,
// without truncating individual turn text.
func Transcript(turns []session.Turn) string {
	if len(turns) > HistoryWindow {
		turns = turns[len(turns)-HistoryWindow:]
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch t.Role {
		case session.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
