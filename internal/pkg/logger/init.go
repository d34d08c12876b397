package logger

import (
	"io"
	log "log/slog"
	"strings"
)

// ParseLevel maps debug|info|warn|error to a slog level; anything else is info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// New builds a JSON logger writing to w that stamps trace ids from the context.
func New(w io.Writer, level string) *log.Logger {
	h := log.NewJSONHandler(w, &log.HandlerOptions{Level: ParseLevel(level)})
	return log.New(&ContextHandler{h})
}

// InitLogger installs New(w, level) as the default logger.
func InitLogger(w io.Writer, level string) {
	log.SetDefault(New(w, level))
}
