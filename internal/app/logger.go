package app

import (
	"io"
	"log/slog"
)

// newLogger builds the slog.Logger an App instance owns. It does not touch
// the global logger, so parallel App instances stay isolated. The level
// string arrives pre-validated from the CLI; anything unparseable falls back
// to info.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "text" {
		handler = slog.NewTextHandler(outW, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	}

	return slog.New(handler).With("component", "featuregrid")
}
