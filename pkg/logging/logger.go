// Package logging provides structured logging for threatscope using zerolog.
// Output defaults to human-readable console lines on a terminal and JSON
// everywhere else, so the CLI stays pleasant interactively while remaining
// machine-parseable in pipelines and CI.
//
// Example usage:
//
//	logging.Info().Str("feed", "MITRE").Msg("downloading bundle")
//
//	log := logging.FromContext(ctx)
//	log.Warn().Err(err).Str("tab", "China").Msg("tab skipped")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger instance.
var defaultLogger zerolog.Logger

// Nop discards everything; handy as an injected no-op.
var Nop = zerolog.Nop()

func init() {
	defaultLogger = NewFromConfig(envConfig())
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger. zerolog's own global logger
// is kept in sync so third-party code logging through it stays consistent.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a logger writing to w at the current global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable stderr logger.
func NewConsole(noColor bool) zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

// With starts a child context on the default logger.
func With() zerolog.Context {
	return defaultLogger.With()
}

// Debug starts a debug-level event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info-level event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warn-level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error-level event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a fatal-level event; the process exits after logging.
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// Err starts an event whose level depends on whether err is nil.
func Err(err error) *zerolog.Event {
	return defaultLogger.Err(err)
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
