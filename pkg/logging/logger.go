// Package logging is the structured logging layer for
// readwise-to-devonthink, built on zerolog. Interactive runs get a
// colored console stream; unattended runs get JSON. Every part of the
// pipeline logs through this package, and loggers travel by context so
// one sync run's lines share the same fields.
//
// Example:
//
//	logging.Info().Str("title", "Deep Work").Msg("Reconciling bookmark")
//
//	ctx = logging.WithTitle(ctx, "Deep Work")
//	logging.FromContext(ctx).Debug().Msg("Matching highlights")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs the package-level event starters. It boots from
// the environment and is replaced wholesale by Configure.
var defaultLogger = fromEnvironment()

// fromEnvironment builds the boot logger used before any configuration
// is loaded: level from LOG_LEVEL (or DEBUG), console output when
// stderr is a terminal, JSON otherwise.
func fromEnvironment() zerolog.Logger {
	level := bootLevel()
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stderr
	if terminal(os.Stderr) && os.Getenv("LOG_FORMAT") != "json" {
		w = consoleWriter(os.Stderr, time.Kitchen, os.Getenv("NO_COLOR") != "")
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func bootLevel() zerolog.Level {
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		return parseLevel(s)
	}
	if os.Getenv("DEBUG") != "" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Default returns the logger behind the package-level event starters.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger. zerolog's own global logger
// follows, so code logging through zerolog/log stays consistent.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New returns a JSON logger writing to w at the global level. A nil w
// writes to stderr.
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
}

// NewConsole returns a human-readable logger writing to w, or stderr
// when w is nil.
func NewConsole(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(consoleWriter(w, time.Kitchen, os.Getenv("NO_COLOR") != ""))
}

// With opens a child-logger context on the default logger.
func With() zerolog.Context { return defaultLogger.With() }

// Level returns a copy of the default logger restricted to level.
func Level(level zerolog.Level) zerolog.Logger { return defaultLogger.Level(level) }

// Event starters on the default logger.

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal starts a fatal-level event; the process exits after Msg.
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }

// WithLevel starts an event at an arbitrary level.
func WithLevel(level zerolog.Level) *zerolog.Event { return defaultLogger.WithLevel(level) }

// Err starts an event at error level when err is non-nil, info level
// otherwise, with the error already attached.
func Err(err error) *zerolog.Event { return defaultLogger.Err(err) }

// consoleWriter is the one place the human-readable writer is built, so
// boot, config, and NewConsole output all look alike.
func consoleWriter(w io.Writer, timeFormat string, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: noColor}
}

// terminal reports whether f is attached to a character device.
func terminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
