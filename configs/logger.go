package configs

import (
	"io"
	"log/slog"
)

// NewLogger writes JSON outside development and text otherwise.
func NewLogger(appEnv string, w io.Writer) *slog.Logger {
	if appEnv == "development" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
