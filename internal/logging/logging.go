package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Setup installs a JSON slog handler at the configured level as the
// process-wide default logger.
func Setup(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	slog.SetDefault(slog.New(handler))
}

// Component returns a child logger tagged with the owning component name.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

func Fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
