package internal

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// NewLogger builds the diagnostic logger. Diagnostics always go to stderr;
// stdout carries list and dump output only.
func NewLogger(cfg ApplicationConfig) *slog.Logger {
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
	return newTextLogger(colorable.NewColorable(os.Stderr), cfg.LogLevel, !isatty.IsTerminal(os.Stderr.Fd()))
}

func newTextLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// A one-shot CLI run does not need timestamps.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}
