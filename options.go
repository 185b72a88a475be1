package rwdt

import (
	"time"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/store"
)

// options holds the configured client settings.
type options struct {
	token           string        // Readwise API token
	source          Source        // highlight source override
	store           store.Store   // document store override
	storeConfig     store.Config  // backend selection when no store is injected
	content         BodyBuilder   // body builder override
	watermarkPath   string        // watermark state file, empty uses the default
	indexDelay      time.Duration // pause between creation and reconciliation
	autoSyncEnabled bool          // start background syncs from New
	syncInterval    time.Duration // interval between background syncs
}

// defaults returns client options with default values.
func defaults() *options {
	return &options{
		indexDelay:   constants.IndexDelay,
		syncInterval: constants.DefaultSyncInterval,
	}
}

// Option is a function that configures a Client instance.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// WithToken sets the Readwise API token used to build the default
// highlight source.
func WithToken(token string) Option {
	return func(o *options) error {
		o.token = token
		return nil
	}
}

// WithSource replaces the Readwise client with a custom highlight source.
func WithSource(source Source) Option {
	return func(o *options) error {
		if source == nil {
			return &errors.ValidationError{
				Field:   "source",
				Message: "cannot be nil",
			}
		}
		o.source = source
		return nil
	}
}

// WithStore replaces the configured backend with a custom document store.
func WithStore(s store.Store) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{
				Field:   "store",
				Message: "cannot be nil",
			}
		}
		o.store = s
		return nil
	}
}

// WithStoreConfig selects and parameterizes the document store backend.
func WithStoreConfig(cfg store.Config) Option {
	return func(o *options) error {
		o.storeConfig = cfg
		return nil
	}
}

// WithBodyBuilder replaces the content fetcher used to build bodies for
// new records.
func WithBodyBuilder(b BodyBuilder) Option {
	return func(o *options) error {
		if b == nil {
			return &errors.ValidationError{
				Field:   "bodyBuilder",
				Message: "cannot be nil",
			}
		}
		o.content = b
		return nil
	}
}

// WithWatermarkPath sets the watermark state file location.
func WithWatermarkPath(path string) Option {
	return func(o *options) error {
		o.watermarkPath = path
		return nil
	}
}

// WithIndexDelay sets the pause between the record-creation phase and
// the highlighting phase.
func WithIndexDelay(delay time.Duration) Option {
	return func(o *options) error {
		if delay < 0 {
			return &errors.ValidationError{
				Field:   "indexDelay",
				Value:   delay,
				Message: "cannot be negative",
			}
		}
		o.indexDelay = delay
		return nil
	}
}

// WithAutoSync configures whether background syncs start from New.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSyncEnabled = enabled
		return nil
	}
}

// WithSyncInterval configures how often background syncs run.
func WithSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return &errors.ValidationError{
				Field:   "syncInterval",
				Value:   interval,
				Message: "must be positive",
			}
		}
		o.syncInterval = interval
		return nil
	}
}
