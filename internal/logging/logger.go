// Package logging provides leveled logging for expkit. It offers two
// complementary outputs:
//   - A console slog.Logger whose level follows the -v/-q verbosity flags
//   - A run-log file sink (run.log) that records at INFO and above
//     regardless of the console level, rotating the previous run's log
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel is the console level with no -v or -q flags given.
const DefaultLevel = slog.LevelWarn

// FileLevel is the fixed floor for the run-log file sink.
const FileLevel = slog.LevelInfo

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "error", "warn", "info", "debug" (case-insensitive).
// Unknown values default to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	default:
		return DefaultLevel
	}
}

// VerbosityLevel maps counted -v and -q flags to a console level. Each -v
// is one step more verbose, each -q one step quieter, starting from warn
// and clamped to the debug..error range.
func VerbosityLevel(verbose, quiet int) slog.Level {
	level := DefaultLevel + slog.Level((quiet-verbose)*4)
	if level < slog.LevelDebug {
		level = slog.LevelDebug
	}
	if level > slog.LevelError {
		level = slog.LevelError
	}
	return level
}

// NewLogger creates a leveled slog.Logger writing text records to w.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenRunLog opens path for the current run, first rotating an existing
// file at that path to path+".0". Only the previous run is kept.
func OpenRunLog(path string) (*os.File, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".0"); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// NewRunLogger creates a logger fanning records out to the console at the
// given level and to the run-log file at FileLevel.
func NewRunLogger(level slog.Level, console io.Writer, file io.Writer) *slog.Logger {
	return slog.New(teeHandler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(file, &slog.HandlerOptions{Level: FileLevel}),
	})
}

// teeHandler fans each record out to every handler that has it enabled.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
