package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    string
	DataDir string

	GeminiAPIKey string
	GeminiModel  string

	TelegramBotToken string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatal().Str("key", k).Msg("missing required env")
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present (local development).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8000"),
		DataDir: getEnv("DATA_DIR", "processed_data"),

		GeminiAPIKey: mustEnv("GOOGLE_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}
