// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects output format and minimum level.
type Config struct {
	Env   string // development -> console output; anything else -> JSON
	Level string // trace, debug, info, warn, error
}

// New creates a structured logger writing to stdout and installs it as the
// zerolog global logger so libraries logging through zerolog/log share it.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Env, "development") {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	zl := NewWithWriter(w, cfg.Level)
	log.Logger = zl
	return zl
}

// NewWithWriter creates a JSON logger on w. Tests use it to capture output.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
