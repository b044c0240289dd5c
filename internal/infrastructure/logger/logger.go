package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config holds logger configuration.
type Config struct {
	Level  string    // trace, debug, info, warn, error, off
	Format string    // json, console
	Output io.Writer // defaults to os.Stderr; stdout carries the balance report
}

// New creates a zerolog logger from cfg. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "payengine").
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch normalized := strings.ToLower(strings.TrimSpace(level)); normalized {
	case "off":
		return zerolog.Disabled
	case "warning":
		return zerolog.WarnLevel
	case "":
		return zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(normalized)
		if err != nil || parsed == zerolog.NoLevel {
			return zerolog.InfoLevel
		}
		return parsed
	}
}
