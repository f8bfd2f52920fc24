package initializers

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv loads a local .env file when present. Real environments set variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err.Error())
	}
}
