// Package rwdt reconciles Readwise reading highlights with the rendered
// document copies kept in a DEVONthink database or a plain folder.
//
// Each sync run fetches the bookmarks updated since the previous run,
// creates markdown records for the ones the store has never seen, wraps
// every highlight span it can locate in CriticMarkup {==...==} markers,
// and merges the freshly rendered annotation block with whatever
// annotation the store already holds. The only state carried between
// runs is a single watermark timestamp.
//
// Example usage:
//
//	client, err := rwdt.New(rwdt.WithToken(token))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.AutoSyncOff()
//
//	client.OnRecordCreated(func(b bookmarks.Bookmark) {
//	    log.Printf("created record for %s", b.DisplayTitle())
//	})
//
//	result, err := client.Sync(ctx, rwdt.WithDryRun(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package rwdt

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/ttscoff/readwise-to-devonthink/internal/content"
	"github.com/ttscoff/readwise-to-devonthink/internal/readwise"
	"github.com/ttscoff/readwise-to-devonthink/internal/watermark"
	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/store"
)

// The default source and body builder satisfy the facade interfaces.
var (
	_ Source      = (*readwise.Client)(nil)
	_ BodyBuilder = (*content.Fetcher)(nil)
)

// Source fetches bookmarks whose highlights changed since a given time.
// A zero time means fetch everything the source has.
type Source interface {
	Fetch(ctx context.Context, since utc.Time) ([]bookmarks.Bookmark, error)
}

// BodyBuilder produces the markdown body for a bookmark whose record
// does not exist in the store yet.
type BodyBuilder interface {
	Body(ctx context.Context, bookmark *bookmarks.Bookmark) string
}

// Client reconciles highlights against a document store.
type Client interface {

	// Syncer runs the reconciliation pipeline
	Syncer

	// AutoSyncer provides access to background sync controls
	AutoSyncer

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// collaborators
	source    Source           // highlight source
	store     store.Store      // document store
	watermark *watermark.Store // persisted fetch-window state
	content   BodyBuilder      // body builder for new records

	// auto sync state
	syncTicker *time.Ticker       // ticker that triggers background syncs
	stopCh     chan struct{}      // stop channel for background syncs
	syncCancel context.CancelFunc // cancel function for the sync goroutine

	// hooks are the event callbacks for sync events
	hooks *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	options, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: options,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	// highlight source: injected, or a Readwise client from the token
	if options.source != nil {
		c.source = options.source
	} else {
		if options.token == "" {
			return nil, errors.ErrTokenRequired
		}
		c.source = readwise.New(options.token)
	}

	// document store: injected, or built from the store configuration
	if options.store != nil {
		c.store = options.store
	} else {
		s, err := store.New(options.storeConfig)
		if err != nil {
			return nil, err
		}
		c.store = s
	}

	// watermark state, at the default path unless overridden
	c.watermark = watermark.New(options.watermarkPath)

	// body builder for records the store has never seen
	if options.content != nil {
		c.content = options.content
	} else {
		c.content = content.NewFetcher()
	}

	// start background syncs if enabled
	if options.autoSyncEnabled {
		if err := c.AutoSyncOn(); err != nil {
			return nil, err
		}
	}

	return c, nil
}
