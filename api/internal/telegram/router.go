// Package telegram is the chat front-end: manual selection, photo upload and
// questions over a per-chat session.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/assistant"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

type Router struct {
	Bot      *tgbotapi.BotAPI
	Svc      *assistant.Service
	Store    *manualstore.Store
	Sessions *session.Manager
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.handleCommand(cid, msg)
		return
	}
	if len(msg.Photo) > 0 {
		r.acceptPhoto(cid, msg)
		return
	}
	if msg.Text != "" {
		r.askQuestion(cid, msg.Text)
	}
}

func (r *Router) askQuestion(cid int64, question string) {
	sess := r.Sessions.Get(sessionKey(cid))
	if sess.Manual() == "" {
		r.send(cid, "No manual selected. Use /manuals to list them and /manual <name> to pick one.")
		return
	}

	photo := sess.TakePendingPhoto()
	r.send(cid, "Thinking…")

	out, err := r.Svc.Ask(context.Background(), sess, question, photo)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.send(cid, out.Answer)

	for _, p := range out.Pages {
		if !p.Found {
			r.send(cid, fmt.Sprintf("Image for page %d not found.", p.Page))
			continue
		}
		ph := tgbotapi.NewPhoto(cid, tgbotapi.FilePath(p.Path))
		ph.Caption = fmt.Sprintf("Reference: Page %d", p.Page)
		if _, err := r.Bot.Send(ph); err != nil {
			log.Warn().Err(err).Int("page", p.Page).Msg("send page image failed")
			r.send(cid, fmt.Sprintf("Could not send image for page %d.", p.Page))
		}
	}
}

func (r *Router) send(chatID int64, text string) {
	if len(text) > 3900 {
		text = text[:3900] + "…"
	}
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("Error: %v", err))
}
