package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

// NewLogger builds the application logger from the resolved config.
// Level precedence, highest first: --log-level, -v, -q, RWDT_LOG_LEVEL,
// then info. Caller annotation turns on automatically at debug and
// trace levels.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

// determineLogLevel resolves the flag and environment inputs into one
// level name. An explicit --log-level beats the boolean shortcuts;
// conflicting -v and -q resolve to quiet. The RWDT_LOG_LEVEL variable
// arrives here already folded into config.LogLevel by LoadConfig.
func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, falling back to %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: --verbose and --quiet both set; --quiet wins\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	return "info"
}

// validateLogLevel accepts the level names the CLI documents and quietly
// substitutes info for anything else.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
