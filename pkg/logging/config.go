package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
)

// Config describes a logger. The CLI fills one in from flags and RWDT_*
// environment variables; programs embedding the library can build one
// directly.
type Config struct {
	Level      string         // minimum level: trace, debug, info, warn, error
	Format     string         // json, console, or auto to follow the terminal
	Output     string         // stderr, stdout, discard, or a file path
	TimeFormat string         // kitchen, rfc3339, unix, or a layout string
	NoColor    bool           // strip color from console output
	AddCaller  bool           // annotate events with file:line
	Fields     map[string]any // fields stamped on every event
}

// DefaultConfig is info-level, auto-format logging on stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger per cfg without replacing the
// default. A nil cfg means DefaultConfig. The global zerolog level is
// set as a side effect so child loggers inherit it.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writerFor(cfg)).Level(level).With().Timestamp().Logger()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	if len(cfg.Fields) > 0 {
		lctx := logger.With()
		for k, v := range cfg.Fields {
			lctx = applyField(lctx, k, v)
		}
		logger = lctx.Logger()
	}
	return logger
}

// Configure builds a logger per cfg and installs it as the default.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ConfigureFromEnv installs a default logger from the LOG_LEVEL,
// LOG_FORMAT, LOG_OUTPUT, and LOG_CALLER environment variables, for
// programs that embed the library without a configuration layer of
// their own.
func ConfigureFromEnv() {
	Configure(&Config{
		Level:     envOr("LOG_LEVEL", "info"),
		Format:    envOr("LOG_FORMAT", "auto"),
		Output:    envOr("LOG_OUTPUT", "stderr"),
		NoColor:   os.Getenv("NO_COLOR") != "",
		AddCaller: os.Getenv("LOG_CALLER") == "true",
	})
}

// writerFor resolves the destination and format. An unrecognized Output
// is treated as a file path; a path that cannot be opened falls back to
// stderr so a bad config never silences logging entirely.
func writerFor(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		out = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && terminal(f) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return consoleWriter(out, timeLayout(cfg.TimeFormat), cfg.NoColor)
	}
	return out
}

// parseLevel is tolerant: zerolog's level names plus a few aliases,
// with info for anything unrecognized.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
		return level
	}
	return zerolog.InfoLevel
}

// timeLayout maps config names onto time layout strings. Anything that
// already looks like a reference layout passes through; empty means a
// Unix timestamp.
func timeLayout(name string) string {
	switch strings.ToLower(name) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(name, "2006") || strings.Contains(name, "15:04") {
		return name
	}
	return time.Kitchen
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
