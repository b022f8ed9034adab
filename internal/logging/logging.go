package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Format selects the log output encoding
type Format string

const (
	// HumanFormat writes "TIMESTAMP [level] message | key=value"
	HumanFormat Format = "human"
	// JSONFormat writes one JSON object per line
	JSONFormat Format = "json"
)

// NewLogger creates a logger writing to w in the given format.
// Level tags are colored only when w is a terminal on stdout/stderr.
func NewLogger(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	h := NewHandler(w, opts)
	h.colored = isTerminal(w)
	return slog.New(h)
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts debug, info, warn or error (case-insensitive) to a slog.Level.
// Unrecognized strings yield slog.LevelInfo.
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
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	return w == os.Stdout || w == os.Stderr
}
