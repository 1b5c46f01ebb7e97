package slogutil

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Format selects the log line encoding.
type Format string

const (
	// HumanFormat writes TIMESTAMP [level] Message | key=value lines
	HumanFormat Format = "human"
	// JSONFormat writes one JSON object per line
	JSONFormat Format = "json"
)

// levelSilent is above every standard level.
const levelSilent = slog.Level(100)

// NewLogger creates a new slog.Logger in the human format.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFormatLogger creates a logger for the given format, falling back to
// the human format for anything unrecognized.
func NewFormatLogger(w io.Writer, format Format, level slog.Level) *slog.Logger {
	if format == JSONFormat {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return NewLogger(w, level)
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &slog.HandlerOptions{Level: levelSilent}))
}

// WithRunID tags every record from the returned logger with a fresh run identifier.
func WithRunID(logger *slog.Logger) *slog.Logger {
	return logger.With(RunKey, uuid.NewString())
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "quiet":
		return levelSilent
	default:
		return slog.LevelInfo
	}
}
