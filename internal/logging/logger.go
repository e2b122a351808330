package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Output formats accepted by New.
const (
	FormatPretty = "pretty"
	FormatText   = "text"
	FormatJSON   = "json"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout flow UI/JSON-RPC).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, format string) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, level, format))
}

// NewHandler builds the slog handler for the given format.
// Unknown formats fall back to JSON.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	replace := func(groups []string, a slog.Attr) slog.Attr {
		// Standardize 'error' key to 'err'
		if a.Key == "error" {
			a.Key = "err"
		}
		return a
	}

	switch strings.ToLower(format) {
	case FormatPretty:
		return tint.NewHandler(w, &tint.Options{
			Level:       level,
			ReplaceAttr: replace,
		})
	case FormatText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replace})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replace})
	}
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
