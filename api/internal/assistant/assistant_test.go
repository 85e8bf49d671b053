package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/answer"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

type fakeEngine struct {
	text    string
	err     error
	lastReq answer.Request
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake-1" }
func (f *fakeEngine) Answer(_ context.Context, req answer.Request) (string, error) {
	f.lastReq = req
	return f.text, f.err
}

func newStore(t *testing.T) *manualstore.Store {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "ultrasound")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := `[{"page":1,"content":"Power switch is red."},{"page":2,"content":"Gain knob is silver."}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_2.png"), []byte("png"), 0o644))
	return manualstore.New(root)
}

func TestAskHappyPath(t *testing.T) {
	eng := &fakeEngine{text: "The gain knob is silver. (Source: Pages 2, 3)"}
	svc := New(newStore(t), eng)
	sess := session.New("s1")
	sess.SetManual("ultrasound")

	out, err := svc.Ask(context.Background(), sess, "what color is the gain knob?", nil)
	require.NoError(t, err)
	assert.False(t, out.Failed)
	assert.Equal(t, eng.text, out.Answer)

	assert.Contains(t, eng.lastReq.Context, "Page 1:\nPower switch is red.")
	assert.Contains(t, eng.lastReq.Context, "Page 2:\nGain knob is silver.")
	assert.Equal(t, "what color is the gain knob?", eng.lastReq.Question)

	require.Len(t, out.Pages, 2)
	assert.True(t, out.Pages[0].Found)
	assert.Equal(t, 2, out.Pages[0].Page)
	assert.False(t, out.Pages[1].Found)
	assert.Equal(t, 3, out.Pages[1].Page)

	turns := sess.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
}

func TestAskCarriesTranscript(t *testing.T) {
	eng := &fakeEngine{text: "ok"}
	svc := New(newStore(t), eng)
	sess := session.New("s1")
	sess.SetManual("ultrasound")

	_, err := svc.Ask(context.Background(), sess, "first question", nil)
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), sess, "second question", nil)
	require.NoError(t, err)

	assert.Contains(t, eng.lastReq.Transcript, "User: first question")
	assert.Contains(t, eng.lastReq.Transcript, "Assistant: ok")
}

func TestAskEngineFailureBecomesAnswerText(t *testing.T) {
	eng := &fakeEngine{err: errors.New("quota exceeded")}
	svc := New(newStore(t), eng)
	sess := session.New("s1")
	sess.SetManual("ultrasound")

	out, err := svc.Ask(context.Background(), sess, "q", nil)
	require.NoError(t, err, "engine failure is not fatal")
	assert.True(t, out.Failed)
	assert.Contains(t, out.Answer, "quota exceeded")
	assert.Empty(t, out.Pages, "citation resolution runs on the error text and finds nothing")

	// The failed exchange is still part of the conversation.
	assert.Len(t, sess.Turns(), 2)
}

func TestAskMissingManualIsHardError(t *testing.T) {
	svc := New(newStore(t), &fakeEngine{text: "ok"})
	sess := session.New("s1")
	sess.SetManual("ghost")
	_, err := svc.Ask(context.Background(), sess, "q", nil)
	require.Error(t, err)

	sess2 := session.New("s2")
	_, err = svc.Ask(context.Background(), sess2, "q", nil)
	require.Error(t, err)
}

func TestAskUndecodablePhotoDegradesToOriginalBytes(t *testing.T) {
	eng := &fakeEngine{text: "ok"}
	svc := New(newStore(t), eng)
	sess := session.New("s1")
	sess.SetManual("ultrasound")

	photo := []byte("not an image at all")
	out, err := svc.Ask(context.Background(), sess, "what is this?", photo)
	require.NoError(t, err)
	require.NotNil(t, out.Image)
	assert.True(t, out.Image.Fallback)
	// Raw bytes still went to the model.
	assert.Equal(t, photo, eng.lastReq.Image)
}
