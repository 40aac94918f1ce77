package log

import (
	"io"
	"log/slog"
)

// levelFor maps the verbose flag to a minimum level. Command-line tools
// only show warnings unless asked for more.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger returns a text logger for the command line that masks
// sensitive values. verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool, opts ...HandlerOption) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewSecureHandler(h, opts...))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool, opts ...HandlerOption) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewSecureHandler(h, opts...))
}

// NewSecureServerLogger returns a JSON logger for the HTTP server. It logs
// at Info by default so that the access log is visible; verbose lowers the
// level to Debug.
func NewSecureServerLogger(w io.Writer, verbose bool, opts ...HandlerOption) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(h, opts...))
}
