package observability

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewLogger builds the job logger. Diagnostics go to w (stderr in
// production) so warnings never mix into the output JSON. Every job run
// carries a run_id for correlating warnings across a batch.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("run_id", uuid.NewString())
}
