package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	loggerInstance *slog.Logger
	once           sync.Once
)

// GetLogger returns the process wide logger. ENV_MODE=production switches
// the output to JSON, everything else gets the human readable text handler.
func GetLogger() *slog.Logger {
	once.Do(func() {
		handlerOptions := &slog.HandlerOptions{Level: slog.LevelInfo}

		var handler slog.Handler
		if os.Getenv("ENV_MODE") == "production" {
			handler = slog.NewJSONHandler(os.Stdout, handlerOptions)
		} else {
			handler = slog.NewTextHandler(os.Stdout, handlerOptions)
		}

		loggerInstance = slog.New(handler)
	})

	return loggerInstance
}
