package assemble

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

func TestManualContext(t *testing.T) {
	pages := []manualstore.Page{
		{Number: 1, Content: "A"},
		{Number: 2, Content: "B"},
	}
	got := ManualContext(pages)
	assert.Equal(t, "Page 1:\nA\n\nPage 2:\nB", got)

	first := strings.Index(got, "Page 1:\nA")
	second := strings.Index(got, "Page 2:\nB")
	assert.True(t, first >= 0 && second > first)
}

func TestManualContextPreservesStoredOrder(t *testing.T) {
	pages := []manualstore.Page{
		{Number: 9, Content: "later"},
		{Number: 3, Content: "earlier"},
	}
	got := ManualContext(pages)
	assert.True(t, strings.Index(got, "Page 9:") < strings.Index(got, "Page 3:"))
}

func TestManualContextEmpty(t *testing.T) {
	assert.Equal(t, "", ManualContext(nil))
}

func TestTranscriptPrefixes(t *testing.T) {
	turns := []session.Turn{
		{Role: session.RoleUser, Text: "what is this knob?"},
		{Role: session.RoleAssistant, Text: "The gain control. (Source: Page 12)"},
	}
	got := Transcript(turns)
	assert.Equal(t, "User: what is this knob?\nAssistant: The gain control. (Source: Page 12)", got)
}

func TestTranscriptWindowCapsAtTen(t *testing.T) {
	var turns []session.Turn
	for i := 1; i <= 11; i++ {
		turns = append(turns, session.Turn{Role: session.RoleUser, Text: fmt.Sprintf("q%d", i)})
	}
	got := Transcript(turns)
	assert.NotContains(t, got, "q1\n")
	assert.False(t, strings.HasPrefix(got, "User: q1"))
	assert.Contains(t, got, "q2")
	assert.Contains(t, got, "q11")
	assert.Equal(t, HistoryWindow, strings.Count(got, "User: "))
}

func TestTranscriptEmpty(t *testing.T) {
	assert.Equal(t, "", Transcript(nil))
}
