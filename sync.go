package rwdt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/agentstation/utc"

	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/highlight"
	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
	"github.com/ttscoff/readwise-to-devonthink/pkg/store"
)

var _ Syncer = (*client)(nil)

// Syncer runs the highlight reconciliation pipeline.
type Syncer interface {
	// Sync performs one reconciliation run
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)
}

// SyncOptions configures a single reconciliation run.
type SyncOptions struct {
	DryRun  bool          // report changes without writing anything
	All     bool          // ignore the watermark and process everything
	Since   utc.Time      // explicit fetch-window start, overrides the watermark
	Limit   int           // cap on bookmarks processed, 0 means no cap
	Timeout time.Duration // bound on the whole run
}

// SyncOption is a function that configures sync options.
type SyncOption func(*SyncOptions)

// WithDryRun reports what a run would change without touching the store
// or the watermark.
func WithDryRun(enabled bool) SyncOption {
	return func(opts *SyncOptions) {
		opts.DryRun = enabled
	}
}

// WithAll ignores the watermark and fetches everything the source has.
func WithAll(enabled bool) SyncOption {
	return func(opts *SyncOptions) {
		opts.All = enabled
	}
}

// WithSince sets an explicit fetch-window start, overriding the watermark.
func WithSince(since utc.Time) SyncOption {
	return func(opts *SyncOptions) {
		opts.Since = since
	}
}

// WithLimit caps how many bookmarks one run processes.
func WithLimit(limit int) SyncOption {
	return func(opts *SyncOptions) {
		opts.Limit = limit
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(timeout time.Duration) SyncOption {
	return func(opts *SyncOptions) {
		opts.Timeout = timeout
	}
}

// NewSyncOptions creates SyncOptions with defaults.
func NewSyncOptions(opts ...SyncOption) *SyncOptions {
	options := &SyncOptions{
		Timeout: constants.SyncContextTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Validate checks if the sync options are valid.
func (opts *SyncOptions) Validate() error {
	if opts.Limit < 0 {
		return &errors.ValidationError{
			Field:   "limit",
			Value:   opts.Limit,
			Message: "cannot be negative",
		}
	}
	if opts.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "timeout",
			Value:   opts.Timeout,
			Message: "cannot be negative",
		}
	}
	return nil
}

// Result summarizes a reconciliation run.
type Result struct {
	Fetched   int           // bookmarks returned by the highlight source
	Created   int           // records created in the document store
	Matched   int           // highlights wrapped into a body this run
	Unmatched int           // highlights whose pattern fit no line
	Updated   int           // records whose body or annotation changed
	Skipped   int           // bookmarks abandoned after a failure
	Errs      []error       // per-bookmark failures, in encounter order
	Duration  time.Duration // wall-clock run time
	DryRun    bool          // true when nothing was written
}

// HasErrors reports whether any bookmark failed during the run.
func (r *Result) HasErrors() bool {
	return len(r.Errs) > 0
}

// Summary returns a one-line description of the run.
func (r *Result) Summary() string {
	s := fmt.Sprintf("fetched %d, created %d, matched %d highlights (%d unmatched), updated %d, skipped %d",
		r.Fetched, r.Created, r.Matched, r.Unmatched, r.Updated, r.Skipped)
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}

// Sync performs one reconciliation run over the staged pipeline.
func (c *client) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := NewSyncOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {} // No-op cancel if no timeout
	}
	defer cancel()

	// Run-scoped log fields: every line this run emits carries the run
	// ID and store backend, which keeps interleaved watch-mode runs
	// readable.
	ctx = logging.WithStore(ctx, c.store.Name())
	ctx = logging.WithRunID(ctx, newRunID())
	logger := logging.FromContext(ctx)
	start := time.Now()

	// Step 3: Resolve the fetch-window start from options or watermark
	since, err := c.since(options)
	if err != nil {
		return nil, err
	}

	// Step 4: Fetch bookmarks. A fetch failure aborts the run. The instant
	// the window closed is the prospective new watermark, so items updated
	// while this run executes are refetched next run.
	windowClosed := utc.Now()
	bks, err := c.source.Fetch(ctx, since)
	if err != nil {
		return nil, err
	}
	if options.Limit > 0 && len(bks) > options.Limit {
		bks = bks[:options.Limit]
	}
	logger.Info().
		Int("bookmarks", len(bks)).
		Str("since", sinceLabel(since)).
		Bool("dry_run", options.DryRun).
		Msg("Starting sync")

	result := &Result{
		Fetched: len(bks),
		DryRun:  options.DryRun,
	}
	r := &run{
		client:  c,
		options: options,
		result:  result,
		skip:    make([]bool, len(bks)),
		missing: make([]bool, len(bks)),
	}

	// Step 5: Creation phase. Every bookmark the store has never seen gets
	// a record; creation failures skip the bookmark but not the run.
	created := r.createRecords(ctx, bks)

	// Step 6: Give the store time to index the new records before matching
	if created > 0 {
		if err := c.pause(ctx, c.options.indexDelay); err != nil {
			return nil, err
		}
	}

	// Step 7: Reconciliation phase, one bookmark at a time in fetch order
	r.reconcile(ctx, bks)

	// Step 8: Persist the watermark. A write failure downgrades to a
	// warning; the next run reprocesses the same window.
	if !options.DryRun {
		if err := c.watermark.Save(windowClosed); err != nil {
			logger.Warn().Err(err).Msg("Could not write watermark, next run will reprocess this window")
		}
	}

	// Step 9: Log the run summary and notify hooks
	result.Duration = time.Since(start)
	logger.Info().
		Int("fetched", result.Fetched).
		Int("created", result.Created).
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Bool("dry_run", result.DryRun).
		Msg("Sync completed")
	c.hooks.triggerSyncCompleted(*result)

	return result, nil
}

// ============================================================================
// Helper Methods for Sync
// ============================================================================

// since resolves the fetch-window start. An explicit Since wins, --all
// clears it, otherwise the persisted watermark decides. A zero time means
// process everything.
func (c *client) since(options *SyncOptions) (utc.Time, error) {
	if options.All {
		return utc.Time{}, nil
	}
	if !options.Since.IsZero() {
		return options.Since, nil
	}
	return c.watermark.Load()
}

// pause blocks for the index delay unless the context ends first.
func (c *client) pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	logging.FromContext(ctx).Debug().Dur("delay", delay).Msg("Waiting for store indexing")
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sinceLabel(since utc.Time) string {
	if since.IsZero() {
		return "beginning"
	}
	return since.Format(time.RFC3339)
}

// newRunID returns a short identifier tying together one run's log lines.
func newRunID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// run carries the state one Sync call threads through its phases.
type run struct {
	client  *client
	options *SyncOptions
	result  *Result
	skip    []bool // bookmarks abandoned after a failure
	missing []bool // records absent from the store at run start
}

// fail records a per-bookmark failure and takes the bookmark out of the
// rest of the run.
func (r *run) fail(ctx context.Context, i int, b *bookmarks.Bookmark, err error) {
	logging.FromContext(ctx).Error().
		Str("title", b.DisplayTitle()).
		Err(err).
		Msg("Bookmark failed, skipping")
	r.result.Errs = append(r.result.Errs, err)
	r.result.Skipped++
	r.skip[i] = true
}

// createRecords ensures every fetched bookmark has a record, building
// bodies for the missing ones. Returns how many records were written.
func (r *run) createRecords(ctx context.Context, bks []bookmarks.Bookmark) int {
	logger := logging.FromContext(ctx)
	created := 0

	for i := range bks {
		b := &bks[i]
		title := b.DisplayTitle()

		_, err := r.client.store.Lookup(ctx, title)
		if err == nil {
			continue
		}
		if !errors.IsNotFound(err) {
			r.fail(ctx, i, b, errors.WrapSync(title, "lookup", err))
			continue
		}

		r.missing[i] = true
		if r.options.DryRun {
			r.result.Created++
			logger.Info().Str("title", title).Bool("dry_run", true).Msg("Would create record")
			continue
		}

		rec := store.NewRecord{
			Title: title,
			Body:  r.client.content.Body(ctx, b),
			URL:   b.URL,
			Tags:  b.Tags,
		}
		if err := r.client.store.Create(ctx, rec); err != nil {
			r.fail(ctx, i, b, errors.WrapSync(title, "create", err))
			continue
		}

		r.result.Created++
		created++
		r.client.hooks.triggerRecordCreated(*b)
		logger.Info().Str("title", title).Msg("Created record")
	}

	return created
}

// reconcile wraps highlights and merges annotations for every bookmark
// that survived the creation phase.
func (r *run) reconcile(ctx context.Context, bks []bookmarks.Bookmark) {
	for i := range bks {
		if r.skip[i] {
			continue
		}
		// A dry run created nothing, so there is no body to match yet.
		if r.options.DryRun && r.missing[i] {
			continue
		}
		b := &bks[i]
		if err := r.reconcileBookmark(ctx, b); err != nil {
			r.fail(ctx, i, b, err)
		}
	}
}

// reconcileBookmark runs the match-wrap-merge sequence for one bookmark.
// Every failure comes back as a SyncError naming the stage that failed.
func (r *run) reconcileBookmark(ctx context.Context, b *bookmarks.Bookmark) error {
	title := b.DisplayTitle()
	ctx = logging.WithTitle(ctx, title)
	logger := logging.FromContext(ctx)

	rec, err := r.client.store.Lookup(ctx, title)
	if err != nil {
		return errors.WrapSync(title, "lookup", err)
	}

	// Highlights match in ascending location order, so an earlier
	// highlight claims a contested line.
	b.SortHighlights()
	matcher := highlight.NewMatcher(b.HighlightTexts())

	body, matches := matcher.Apply(rec.Body)
	matchedSet := highlight.Matched(matches)
	matched := len(matchedSet)
	unmatched := matcher.Len() - matched
	r.result.Matched += matched
	r.result.Unmatched += unmatched
	if unmatched > 0 {
		logger.Debug().
			Int("matched", matched).
			Int("unmatched", unmatched).
			Msg("Some highlights fit no line")
	}

	updated := false
	if body != rec.Body {
		if !r.options.DryRun {
			if err := r.client.store.ReplaceBody(ctx, title, body); err != nil {
				return errors.WrapSync(title, "replace body", err)
			}
		}
		updated = true
	}

	// Merge rather than overwrite the stored annotation, so edits made in
	// the store survive the run.
	if next := b.Annotation(); next != "" {
		existing, err := r.client.store.Annotation(ctx, title)
		if err != nil {
			return errors.WrapSync(title, "read annotation", err)
		}
		merged := highlight.Merge(next, existing)
		if merged != existing {
			if !r.options.DryRun {
				if err := r.client.store.ReplaceAnnotation(ctx, title, merged); err != nil {
					return errors.WrapSync(title, "replace annotation", err)
				}
			}
			updated = true
		}
	}

	if updated {
		r.result.Updated++
	}
	if !r.options.DryRun {
		r.client.hooks.triggerBookmarkSynced(*b, matched, unmatched)
	}
	return nil
}
