// Package logging provides structured logging for sfsquery.
//
// This package wraps the standard library's log/slog package to provide
// consistent logging across all components. Logs always go to stderr
// because stdout carries the report.
//
// Usage:
//
//	// Initialize at startup
//	logging.Init(slog.LevelInfo, logging.FormatAuto)
//
//	// Get a component logger
//	log := logging.Component("scan")
//	log.Info("scan finished", "records", n)
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatAuto = "auto"
)

// Logger is the global logger instance.
var Logger *slog.Logger

// Init initializes the global logger on stderr with the specified level and format.
func Init(level slog.Level, format string) {
	InitWriter(os.Stderr, level, format)
}

// InitWriter initializes the global logger on w. FormatAuto selects text when
// w is a terminal and JSON otherwise.
func InitWriter(w io.Writer, level slog.Level, format string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if format == FormatAuto {
		format = FormatJSON
		if isTerminal(w) {
			format = FormatText
		}
	}

	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// ValidFormat reports whether s names a supported output format.
func ValidFormat(s string) bool {
	switch s {
	case FormatText, FormatJSON, FormatAuto:
		return true
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Component returns a logger for a specific component.
// The component name is added as an attribute to all log entries.
//
// Example:
//
//	log := logging.Component("segment")
//	log.Debug("opened") // Output: time=... level=DEBUG component=segment msg=opened
func Component(name string) *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, FormatAuto)
	}
	return Logger.With("component", name)
}
