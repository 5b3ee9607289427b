package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger: text at debug level in development, JSON at
// info level otherwise.
func New(development bool) *slog.Logger {
	return NewWithWriter(os.Stdout, development)
}

func NewWithWriter(w io.Writer, development bool) *slog.Logger {
	if development {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
