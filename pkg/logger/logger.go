package logger

import (
	"log/slog"
	"os"
)

// NewHandler returns the slog handler the whole service logs through.
// Level defaults to info; opts may override it.
func NewHandler(opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelInfo}
	}

	return slog.NewJSONHandler(os.Stdout, opts)
}
