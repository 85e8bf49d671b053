// Package assistant wires the request path together: manual context, image
// preparation, the model call and citation resolution.
package assistant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/answer"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/assemble"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/citations"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/imageprep"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/util"
)

type Service struct {
	Store  *manualstore.Store
	Engine answer.Engine
}

func New(store *manualstore.Store, engine answer.Engine) *Service {
	return &Service{Store: store, Engine: engine}
}

// AskResult is the tagged outcome of one question. Failed means the model
// boundary errored and Answer carries the error text instead; citation
// resolution still ran on it.
type AskResult struct {
	Answer string
	Failed bool
	Pages  []citations.PageImage
	Image  *imageprep.Result // nil when no photo was attached
}

// Ask runs one question against the session's selected manual. Only a
// missing/unreadable manual is a hard error; model and image failures degrade
// per component and the request still completes.
func (s *Service) Ask(ctx context.Context, sess *session.Session, question string, photo []byte) (AskResult, error) {
	manual := sess.Manual()
	if manual == "" {
		return AskResult{}, fmt.Errorf("no manual selected")
	}
	pages, err := s.Store.Load(manual)
	if err != nil {
		return AskResult{}, err
	}

	req := answer.Request{
		Context:    assemble.ManualContext(pages),
		Transcript: assemble.Transcript(sess.Recent(assemble.HistoryWindow)),
		Question:   question,
	}

	var res AskResult
	if len(photo) > 0 {
		prep := imageprep.Process(photo, sess.Spec())
		res.Image = &prep
		req.Image = prep.Bytes
		req.ImageMIME = prep.MIME
		if prep.Fallback {
			req.ImageMIME = util.SniffImageMIME(photo)
			log.Warn().Str("manual", manual).Msg("image preparation failed, submitting original bytes")
		}
	}

	text, err := s.Engine.Answer(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("engine", s.Engine.Name()).Msg("answer service failed")
		res.Failed = true
		text = fmt.Sprintf("An error occurred while communicating with the model: %v", err)
	}
	res.Answer = text

	sess.Append(session.RoleUser, question)
	sess.Append(session.RoleAssistant, text)

	// Runs on error text too; it will typically find nothing.
	res.Pages = citations.Resolve(s.Store, manual, citations.ExtractPages(text))
	return res, nil
}
