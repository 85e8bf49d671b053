// Package answer defines the boundary to the hosted generative model.
package answer

import "context"

// Request carries everything one question needs: the assembled manual
// context, the recent-turn transcript, the question itself and an optional
// prepared image.
type Request struct {
	Context    string
	Transcript string
	Question   string
	Image      []byte
	ImageMIME  string
}

// Engine is a single-call client. One user action means one logical attempt;
// transport errors come back as a plain error and the caller decides how to
// render them.
type Engine interface {
	Name() string
	GetModel() string
	Answer(ctx context.Context, req Request) (string, error)
}
