package observability

import (
	"io"
	"os"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds a zerolog logger writing to w in the configured format.
func NewLogger(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	if cfg.Format == config.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(cfg.Level).With().Timestamp().Logger()
}

// Setup installs the configured logger as the global zerolog logger.
func Setup(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = NewLogger(os.Stderr, cfg)
}
