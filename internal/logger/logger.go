package logger

import (
	"log/slog"
	"os"
)

// New returns the service-wide JSON logger. Debug records are
// suppressed.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
