package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tubely/internal/config"
)

// Log is the process-wide logger. It writes to stdout until Init is called.
var Log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures Log from the log settings.
func Init(cfg config.LogConfig) {
	Log = New(os.Stdout, cfg)
}

// New builds a logger writing to w with the configured level and format.
func New(w io.Writer, cfg config.LogConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := w
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component returns a child of Log tagged with the component name.
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
