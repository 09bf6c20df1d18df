package obs

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process-wide logger. Local environments get tinted,
// debug-level console output; everything else emits JSON lines at info level
// for the log pipeline.
func NewLogger(env string) *slog.Logger {
	if isLocalEnv(env) {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func isLocalEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "debug":
		return true
	default:
		return false
	}
}
