package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (r *Router) handleCommand(cid int64, msg *tgbotapi.Message) {
	sess := r.Sessions.Get(sessionKey(cid))
	arg := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		r.send(cid, "Select a manual with /manual <name>, then ask a question.\n"+
			"Attach a photo first if you want to ask about something you can see.\n"+
			"Commands: /manuals, /manual, /settings, /rotate, /crop, /resize, /reset")

	case "manuals":
		names, err := r.Store.List()
		if err != nil {
			r.sendError(cid, err)
			return
		}
		if len(names) == 0 {
			r.send(cid, "No processed manuals found. Run ingestion first.")
			return
		}
		r.send(cid, "Available manuals:\n• "+strings.Join(names, "\n• "))

	case "manual":
		if arg == "" {
			if cur := sess.Manual(); cur != "" {
				r.send(cid, "Current manual: "+cur)
			} else {
				r.send(cid, "Usage: /manual <name>")
			}
			return
		}
		pages, err := r.Store.Load(arg)
		if err != nil {
			r.sendError(cid, err)
			return
		}
		sess.SetManual(arg)
		r.send(cid, fmt.Sprintf("Loaded %q (%d pages). Ask away.", arg, len(pages)))

	case "settings":
		s := sess.Spec()
		r.send(cid, fmt.Sprintf(
			"Photo settings:\nrotate: %d°\ncrop: %d%%\nresize: %d%%\nsize budget: %d KB\nmax dimension: %d px",
			s.RotateDegrees, s.CropPercent, s.ResizePercent, s.MaxKilobytes, s.MaxDimension))

	case "rotate":
		r.setSpecField(cid, arg, "rotate", "rotate degrees", func(v int) {
			s := sess.Spec()
			s.RotateDegrees = v
			sess.SetSpec(s)
		})

	case "crop":
		r.setSpecField(cid, arg, "crop", "crop percent", func(v int) {
			s := sess.Spec()
			s.CropPercent = v
			sess.SetSpec(s)
		})

	case "resize":
		r.setSpecField(cid, arg, "resize", "resize percent", func(v int) {
			s := sess.Spec()
			s.ResizePercent = v
			sess.SetSpec(s)
		})

	case "reset":
		sess.Reset()
		r.send(cid, "Conversation cleared.")

	default:
		r.send(cid, "Unknown command.")
	}
}

func (r *Router) setSpecField(cid int64, arg, cmd, name string, set func(int)) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		r.send(cid, fmt.Sprintf("Usage: /%s <number>", cmd))
		return
	}
	set(v)
	r.send(cid, fmt.Sprintf("Set %s to %d (clamped to the allowed range).", name, v))
}
