package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the root logger every component receives by injection.
// Format "pretty" renders a console writer for local development;
// anything else emits JSON lines. An unknown level falls back to info
// rather than failing startup.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	log := zerolog.New(os.Stdout)
	if format == "pretty" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return log.With().Timestamp().Str("service", "proctor-backend").Logger()
}
