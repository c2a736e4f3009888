// Package logging configures the process-wide slog default with a colored
// tint handler.
//
// The level comes from LOG_LEVEL (debug, info, warn, error; default info).
// Debug level also turns on source locations, since that is when file:line
// is worth the line noise. NO_COLOR disables color for piped output.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the level specified by LOG_LEVEL.
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures logging at the given level, overriding LOG_LEVEL.
func SetupWithLevel(level slog.Level) {
	_, noColor := os.LookupEnv("NO_COLOR")
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			AddSource:  level <= slog.LevelDebug,
			NoColor:    noColor,
			TimeFormat: time.TimeOnly,
		}),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
