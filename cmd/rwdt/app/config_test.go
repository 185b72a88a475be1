package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, config)

	// LogLevel may legitimately stay empty; the precedence logic in
	// logger.go resolves it later.
	assert.NotEmpty(t, config.LogFormat)
	assert.Equal(t, constants.DefaultGroup, config.Group)
	assert.Equal(t, constants.DefaultSchedule, config.Schedule)
	assert.Equal(t, constants.IndexDelay, config.IndexDelay)
	assert.Equal(t, constants.SyncContextTimeout, config.Timeout)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("RWDT_STORE", "folder")
	t.Setenv("RWDT_GROUP", "Highlights")
	t.Setenv("RWDT_FOLDER_PATH", "/tmp/rwdt-test")
	t.Setenv("RWDT_WATERMARK_PATH", "/tmp/rwdt-test/state.yaml")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "folder", config.StoreBackend)
	assert.Equal(t, "Highlights", config.Group)
	assert.Equal(t, "/tmp/rwdt-test", config.FolderPath)
	assert.Equal(t, "/tmp/rwdt-test/state.yaml", config.WatermarkPath)
}

func TestLoadConfigTokenAliases(t *testing.T) {
	// READWISE_TOKEN alone is enough; it is the name Readwise documents.
	t.Setenv("RWDT_TOKEN", "")
	t.Setenv("READWISE_TOKEN", "readwise-key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "readwise-key", config.Token)

	// The prefixed name wins when both are set.
	t.Setenv("RWDT_TOKEN", "prefixed-key")

	config, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", config.Token)
}

func TestLoadConfigParsesDurations(t *testing.T) {
	t.Setenv("RWDT_INDEX_DELAY", "10s")
	t.Setenv("RWDT_TIMEOUT", "2m")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, config.IndexDelay)
	assert.Equal(t, 2*time.Minute, config.Timeout)
}

func TestLoadConfigBooleanEnvVars(t *testing.T) {
	tests := []struct {
		envVar string
		value  string
		check  func(*Config) bool
	}{
		{"RWDT_VERBOSE", "true", func(c *Config) bool { return c.Verbose }},
		{"RWDT_QUIET", "true", func(c *Config) bool { return c.Quiet }},
		{"RWDT_NO_COLOR", "1", func(c *Config) bool { return c.NoColor }},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			config, err := LoadConfig()
			require.NoError(t, err)
			assert.True(t, tt.check(config))
		})
	}
}

func TestLoadConfigLoggingEnvVars(t *testing.T) {
	t.Setenv("RWDT_LOG_LEVEL", "debug")
	t.Setenv("RWDT_LOG_FORMAT", "json")
	t.Setenv("RWDT_LOG_OUTPUT", "stdout")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "stdout", config.LogOutput)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	// An empty log-level flag leaves the loaded value alone.
	config.UpdateFromFlags(true, false, true, "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "info", config.LogLevel)

	// An explicit log-level flag replaces it.
	config.UpdateFromFlags(false, true, false, "debug")
	assert.False(t, config.Verbose)
	assert.True(t, config.Quiet)
	assert.Equal(t, "debug", config.LogLevel)
}
