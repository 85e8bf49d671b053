package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/answer/gemini"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/assistant"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/config"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/handle"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/httpserver"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/manualstore"
	"github.com/digitalhumanproject-byte/CANON-RAG/api/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.Load()

	store := manualstore.New(cfg.DataDir)
	if names, err := store.List(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("manual store unreadable")
	} else {
		log.Info().Int("manuals", len(names)).Str("dir", cfg.DataDir).Msg("manual store ready")
	}

	engine := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	svc := assistant.New(store, engine)
	h := handle.New(store, svc, session.NewManager())

	if err := httpserver.Start(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
