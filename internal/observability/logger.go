package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/claussann/FishingWebApp/internal/config"
)

// NewLogger builds the long-running server logger from LOG_LEVEL and
// LOG_FORMAT. It writes to stdout and becomes the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewCommandLogger builds the logger for one-shot commands. It writes to
// stderr because stdout carries command output such as an exported backup.
func NewCommandLogger(cfg *config.Config) *slog.Logger {
	return newStderrLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// newStderrLogger follows the shared helper's conventions: "text" selects the
// text handler, anything else JSON, and unknown levels mean info.
func newStderrLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
