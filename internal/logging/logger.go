package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout. When extra handlers are
// given (the system_logs sink), records fan out to all of them.
func Setup(extra ...slog.Handler) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, extra...)))
}

func newHandler(w io.Writer, extra ...slog.Handler) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	return handler
}
