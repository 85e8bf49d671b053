package telegram

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// acceptPhoto downloads the largest rendition of an incoming photo and holds
// it on the session. A caption doubles as the question and is asked right
// away; otherwise the photo waits for the next text message.
func (r *Router) acceptPhoto(cid int64, msg *tgbotapi.Message) {
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	raw, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	sess := r.Sessions.Get(sessionKey(cid))
	sess.SetPendingPhoto(raw)

	if q := strings.TrimSpace(msg.Caption); q != "" {
		r.askQuestion(cid, q)
		return
	}
	r.send(cid, "Photo received. Now ask your question and I will look at it too.")
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
