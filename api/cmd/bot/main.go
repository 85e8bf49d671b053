package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/answer/gemini"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/assistant"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/config"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/telegram"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if strings.TrimSpace(cfg.TelegramBotToken) == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is required for the bot")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram init")
	}
	bot.Debug = false

	store := manualstore.New(cfg.DataDir)
	engine := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)

	r := &telegram.Router{
		Bot:      bot,
		Svc:      assistant.New(store, engine),
		Store:    store,
		Sessions: session.NewManager(),
	}

	// healthz on the side; polling does not need an HTTP server but the
	// platform health check does.
	go func() {
		http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := "0.0.0.0:" + cfg.Port
		log.Info().Str("addr", addr).Msg("health server listening")
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatal().Err(err).Msg("health server stopped")
		}
	}()

	log.Info().Str("bot", bot.Self.UserName).Str("model", engine.GetModel()).Msg("polling")
	runPolling(context.Background(), bot, r.HandleUpdate)
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}
