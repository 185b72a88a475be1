// Package app provides the application container for the rwdt CLI:
// configuration, logging, and a lazily built sync client behind one
// dependency-injection point.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	rwdt "github.com/ttscoff/readwise-to-devonthink"
	"github.com/ttscoff/readwise-to-devonthink/internal/readwise"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/store"
)

// App holds everything a command needs: build metadata, the merged
// configuration, the logger, and the sync client.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// The sync client is built on first use and shared by every
	// command in the process.
	mu     sync.RWMutex
	client rwdt.Client
}

// New loads configuration, builds the logger, and returns an App ready
// to execute commands. Options run last so tests can swap in fakes.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the release version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit the binary was built from.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build timestamp.
func (a *App) Date() string {
	return a.date
}

// BuiltBy names the build system that produced the binary.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the merged application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the process logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the sync client, building it on first call. Safe for
// concurrent use.
func (a *App) Client() (rwdt.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Another goroutine may have built it while we waited for the
	// write lock.
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.buildClientOptions()
	if err != nil {
		return nil, err
	}
	c, err := rwdt.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "sync client", "", err)
	}

	a.client = c
	return c, nil
}

// Source returns a Readwise client for commands that read the highlight
// source without touching the document store.
func (a *App) Source() (*readwise.Client, error) {
	if a.config.Token == "" {
		return nil, errors.NewConfigError("readwise", "no API token configured (set READWISE_TOKEN or token in the config file)", errors.ErrTokenRequired)
	}
	return readwise.New(a.config.Token), nil
}

// Shutdown stops any background sync schedule before the process
// exits.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.client
	a.mu.RUnlock()

	if c != nil {
		if err := c.AutoSyncOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop background syncs during shutdown")
		}
	}

	return nil
}

// buildClientOptions constructs sync client options from the app
// configuration.
func (a *App) buildClientOptions() ([]rwdt.Option, error) {
	if a.config.Token == "" {
		return nil, errors.NewConfigError("readwise", "no API token configured (set READWISE_TOKEN or token in the config file)", errors.ErrTokenRequired)
	}

	opts := []rwdt.Option{
		rwdt.WithToken(a.config.Token),
		rwdt.WithStoreConfig(store.Config{
			Backend:  a.config.StoreBackend,
			Database: a.config.Database,
			Group:    a.config.Group,
			Path:     a.config.FolderPath,
		}),
	}

	if a.config.WatermarkPath != "" {
		opts = append(opts, rwdt.WithWatermarkPath(a.config.WatermarkPath))
	}
	opts = append(opts, rwdt.WithIndexDelay(a.config.IndexDelay))

	return opts, nil
}

// Option mutates the App during construction.
type Option func(*App) error

// WithConfig replaces the configuration loaded from disk.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom sync client (useful for testing).
func WithClient(c rwdt.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
