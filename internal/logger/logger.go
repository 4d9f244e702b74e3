package logger

import (
	"log/slog"
	"os"
)

// New initializes and returns a structured logger using slog.
// It outputs JSON-formatted logs to stdout, suitable for production.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
	})
	return slog.New(handler)
}
