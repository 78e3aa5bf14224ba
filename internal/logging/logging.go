// Package logging configures slog for the et binary.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default logger writing to stdout. Dev mode logs text
// at debug level, otherwise JSON at info level.
func Setup(devMode bool) *slog.Logger {
	return SetupWriter(os.Stdout, devMode)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, devMode bool) *slog.Logger {
	var handler slog.Handler
	if devMode {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
