// Package logging configures the zerolog loggers used across the tool.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a JSON logger writing to out at the given level. An empty
// or unknown level falls back to info.
func New(level string, out io.Writer) zerolog.Logger {
	return zerolog.New(out).Level(parseLevel(level)).With().Timestamp().Logger()
}

// Console builds a human-readable logger for terminal output.
func Console(level string, out io.Writer) zerolog.Logger {
	cw := zerolog.NewConsoleWriter()
	cw.Out = out
	cw.TimeFormat = time.DateTime
	return zerolog.New(cw).Level(parseLevel(level)).With().Timestamp().Logger()
}

// File builds a JSON logger appending to the file at path. The returned
// closer flushes the file handle; callers defer it for the process
// lifetime.
func File(level, path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return New(level, f), f, nil
}

// Discard returns a logger that drops everything.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}

func parseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
