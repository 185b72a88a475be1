package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"nothing set defaults to info", Config{}, "info"},
		{"verbose lowers to debug", Config{Verbose: true}, "debug"},
		{"quiet raises to warn", Config{Quiet: true}, "warn"},
		{"verbose plus quiet keeps quiet", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit level wins over verbose", Config{LogLevel: "error", Verbose: true}, "error"},
		{"explicit level wins over quiet", Config{LogLevel: "trace", Quiet: true}, "trace"},
		{"explicit level wins over both flags", Config{LogLevel: "info", Verbose: true, Quiet: true}, "info"},
		{"env-sourced level is honored", Config{LogLevel: "debug"}, "debug"},
		{"unknown level falls back to info", Config{LogLevel: "nonsense"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Equal(t, tt.want, determineLogLevel(&cfg))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Equal(t, level, validateLogLevel(level))
	}

	// Anything else falls back to info, including case variants: levels
	// are matched exactly as the flag documents them.
	for _, level := range []string{"", "DEBUG", "fatal", "verbose"} {
		assert.Equal(t, "info", validateLogLevel(level), "level %q", level)
	}
}

func TestNewLoggerBuildsForEveryConfig(t *testing.T) {
	configs := []*Config{
		{LogFormat: "auto", LogOutput: "stderr"},
		{LogFormat: "console", LogOutput: "stderr", Verbose: true},
		{LogFormat: "json", LogOutput: "discard", LogLevel: "debug"},
		{LogFormat: "json", LogOutput: "stderr", Quiet: true},
	}

	for _, cfg := range configs {
		logger := NewLogger(cfg)
		// Emitting below the configured level must not panic or write.
		logger.Trace().Msg("probe")
	}
}
