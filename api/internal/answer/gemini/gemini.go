package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/answer"
)

const promptTemplate = `You are an expert assistant specialized in analyzing technical manuals for complex machinery like ultrasound equipment.
Your task is to answer the user's question based ONLY on the provided context from the manual.
If the user provides an image, use it as part of their query (e.g., "What is this button?" with an image of a button).
After providing the answer, you MUST cite the specific page number(s) where you found the information.
Format your citation clearly at the end of your answer, for example: (Source: Page 15) or (Source: Pages 28, 32).

CONTEXT FROM MANUAL:
%s

CONVERSATION SO FAR:
%s

QUESTION:
%s

ASSISTANT'S ANSWER:
`

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Answer sends one question with its manual context and optional image part.
// Transient transport failures are retried a few times; everything else is
// returned to the caller as-is.
func (e *Engine) Answer(ctx context.Context, req answer.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GOOGLE_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}

	prompt := fmt.Sprintf(promptTemplate, req.Context, req.Transcript, req.Question)
	parts := []genai.Part{genai.Text(prompt)}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Blob{MIMEType: mime, Data: req.Image})
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", fmt.Errorf("gemini: empty response")
		}
		return strings.TrimSpace(txt), nil
	}
	return "", lastErr
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
