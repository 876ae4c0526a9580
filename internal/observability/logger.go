package observability

import (
	"log/slog"
	"os"
)

func NewLogger(env string, traced bool) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	if traced {
		handler = NewTraceHandler(handler)
	}

	return slog.New(handler)
}
