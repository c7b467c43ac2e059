package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
)

// Format is the output format of the log handler.
type Format string

const (
	// FormatText is the slog key=value format.
	FormatText Format = "text"
	// FormatPretty is the colored tint format for terminals.
	FormatPretty Format = "pretty"
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatPretty:
		return FormatPretty, nil
	}
	return "", errors.Errorf("unknown log format %q, expected text or pretty", s)
}

// NewWithOptions creates a new logger writing to w in the given format.
func NewWithOptions(w io.Writer, format Format, level slog.Level) *slog.Logger {
	var handler slog.Handler
	switch format {
	case FormatPretty:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}

// Error creates a structured error field
func Error(err error) slog.Attr {
	return tint.Err(err)
}
