package logger

import (
	"log/slog"
	"os"
)

// New: JSON в stdout; в dev — debug-уровень и источник строки.
func New(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	h := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(h).With("service", "vip-drama-bot")
}
