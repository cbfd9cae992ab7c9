package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level string // trace, debug, info, warn, error
	File  string // log file path; empty discards output
}

// Setup builds the application logger. The TUI owns the terminal, so logs
// always go to a file (or nowhere). Returns a closer for the log file.
func Setup(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.File == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	log := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return log, file, nil
}

// WithComponent returns a child logger tagged with a component field
func WithComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
