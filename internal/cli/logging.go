package cmd

import (
	"log/slog"
	"os"
)

// loggerFromEnv builds a metadata.Recorder-backing logger honoring
// LOG_LEVEL, defaulting to info when unset or unrecognized.
func loggerFromEnv() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
