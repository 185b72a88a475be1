package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
)

// Config is the merged view of every configuration source: persistent
// flags, RWDT_* environment variables, .env files, and the YAML config
// file, in that order of precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Path of the config file actually read, if any.
	ConfigFile string

	// Readwise API token.
	Token string

	// Document store selection.
	StoreBackend string
	Database     string
	Group        string
	FolderPath   string

	// Sync behavior.
	WatermarkPath string
	IndexDelay    time.Duration
	Timeout       time.Duration
	Schedule      string

	// Logging.
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig reads .env files, binds RWDT_* environment variables, and
// reads the config file from --config or the standard locations
// (~/.config/rwdt/, then the working directory). Flag values are folded
// in later by UpdateFromFlags, after cobra has parsed them.
func LoadConfig() (*Config, error) {
	// .env files go first so Viper's env binding sees their values.
	loadEnvFiles()

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// READWISE_TOKEN is honored without the RWDT_ prefix because that is
	// the name Readwise documents
	if err := viper.BindEnv("token", "RWDT_TOKEN", "READWISE_TOKEN"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind token environment variable: %v\n", err)
	}

	viper.SetDefault("index_delay", constants.IndexDelay)
	viper.SetDefault("timeout", constants.SyncContextTimeout)
	viper.SetDefault("schedule", constants.DefaultSchedule)
	viper.SetDefault("group", constants.DefaultGroup)

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		if configDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(configDir, constants.AppConfigDirName))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// A missing config file is fine; everything has a default or an
	// env binding.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		Token: viper.GetString("token"),

		StoreBackend: viper.GetString("store"),
		Database:     viper.GetString("database"),
		Group:        viper.GetString("group"),
		FolderPath:   viper.GetString("folder_path"),

		WatermarkPath: viper.GetString("watermark_path"),
		IndexDelay:    viper.GetDuration("index_delay"),
		Timeout:       viper.GetDuration("timeout"),
		Schedule:      viper.GetString("schedule"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: envOrDefault("RWDT_LOG_FORMAT", "auto"),
		LogOutput: envOrDefault("RWDT_LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags folds the parsed persistent flags into the config.
// Cobra parses flags after LoadConfig runs, so this is how flags win
// over the file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles reads .env files from the working directory. Load never
// overrides variables that are already set, so the first file listed wins.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// envOrDefault reads an environment variable, falling back when unset
// or empty.
func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
