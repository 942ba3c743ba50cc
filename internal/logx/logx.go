// Package logx builds the structured loggers used by the commands.
package logx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrUnknownLevel is returned by ParseLevel for names it does not know.
var ErrUnknownLevel = errors.New("unknown log level")

// DefaultLevel is used when no level is configured.
var DefaultLevel = slog.LevelInfo

// New returns a text logger writing to w at the given level. A nil w
// discards everything.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel parses debug, info, warn or error. An empty name gives DefaultLevel.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownLevel)
}
