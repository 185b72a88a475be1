package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

// swapDefault installs a buffer-backed default logger and restores the
// original when the test ends.
func swapDefault(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	original := *logging.Default()
	originalGlobal := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalGlobal)
	})

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(level)
	logging.SetDefault(zerolog.New(buf).Level(level).With().Timestamp().Logger())
	return buf
}

func TestEventStarters(t *testing.T) {
	buf := swapDefault(t, zerolog.DebugLevel)

	logging.Debug().Msg("debug line")
	logging.Info().Msg("info line")
	logging.Warn().Msg("warn line")
	logging.Error().Msg("error line")

	out := buf.String()
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "info line")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error line")
}

func TestLevelFiltering(t *testing.T) {
	buf := swapDefault(t, zerolog.WarnLevel)

	logging.Debug().Msg("too quiet")
	logging.Info().Msg("still too quiet")
	logging.Warn().Msg("loud enough")

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "loud enough")
}

func TestErrAttachesError(t *testing.T) {
	buf := swapDefault(t, zerolog.InfoLevel)

	logging.Err(assert.AnError).Msg("something broke")

	out := buf.String()
	assert.Contains(t, out, "something broke")
	assert.Contains(t, out, assert.AnError.Error())
	assert.Contains(t, out, `"level":"error"`)
}

func TestWithBuildsChildLogger(t *testing.T) {
	buf := swapDefault(t, zerolog.InfoLevel)

	child := logging.With().Str("component", "sync").Int("highlights", 3).Logger()
	child.Info().Msg("child line")

	out := buf.String()
	assert.Contains(t, out, `"component":"sync"`)
	assert.Contains(t, out, `"highlights":3`)
}

func TestNewIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf)
	logger.Info().Msg("wire format")

	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "wire format")
}

func TestNewConsoleIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewConsole(&buf)
	logger.Info().Msg("pretty line")

	out := buf.String()
	require.NotEmpty(t, out)
	// Console output abbreviates the level and drops the JSON framing.
	assert.Contains(t, out, "pretty line")
	assert.NotContains(t, out, `"level"`)
}

func TestTestLoggerCaptures(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Info().Msg("first")
	tl.Error().Msg("second")

	tl.AssertContains(t, "first")
	tl.AssertContains(t, "second")
	assert.Equal(t, 2, tl.Count())

	tl.Clear()
	assert.Zero(t, tl.Count())
	assert.Empty(t, tl.Lines())
}
