// SPDX-License-Identifier: EPL-2.0

// Package logger configures the process wide slog logger.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelNone disables every record.
const LevelNone = slog.Level(100)

// ErrUnknownLevel is returned for a level name Setup does not know.
var ErrUnknownLevel = errors.New("unknown log level")

// ErrUnknownFormat is returned for a format other than text or json.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseLevel maps none, debug, info, warn and error to a slog.Level. The
// empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "none", "off":
		return LevelNone, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == LevelNone {
		return slog.New(slog.DiscardHandler), nil
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return slog.New(handler), nil
}

// Setup configures the global logger. Records go to file when one is
// given and to stderr otherwise. The returned closer releases the file.
func Setup(level, format, file string) (io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}

	l, err := New(w, level, format)
	if err != nil {
		closer.Close()
		return nil, err
	}
	slog.SetDefault(l)

	return closer, nil
}

// WithFields returns the default logger with the given fields.
func WithFields(fields ...any) *slog.Logger {
	return slog.With(fields...)
}

// WithComponent returns the default logger with a component field.
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
