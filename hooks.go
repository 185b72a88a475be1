package rwdt

import (
	"sync"

	"github.com/ttscoff/readwise-to-devonthink/pkg/bookmarks"
)

// Hook function types for sync events. Mutation hooks fire only on real
// runs; a dry run triggers SyncCompletedHook alone.
type (
	// RecordCreatedHook is called when a record is created in the store
	RecordCreatedHook func(bookmark bookmarks.Bookmark)

	// BookmarkSyncedHook is called after a bookmark is reconciled
	BookmarkSyncedHook func(bookmark bookmarks.Bookmark, matched, unmatched int)

	// SyncCompletedHook is called when a sync run finishes
	SyncCompletedHook func(result Result)
)

var _ Hooks = (*client)(nil)

// Hooks provides registration for sync event callbacks.
type Hooks interface {
	// OnRecordCreated registers a callback for created records
	OnRecordCreated(RecordCreatedHook)

	// OnBookmarkSynced registers a callback for reconciled bookmarks
	OnBookmarkSynced(BookmarkSyncedHook)

	// OnSyncCompleted registers a callback for completed runs
	OnSyncCompleted(SyncCompletedHook)
}

// OnRecordCreated registers a callback for created records.
func (c *client) OnRecordCreated(fn RecordCreatedHook) {
	c.hooks.onRecordCreated(fn)
}

// OnBookmarkSynced registers a callback for reconciled bookmarks.
func (c *client) OnBookmarkSynced(fn BookmarkSyncedHook) {
	c.hooks.onBookmarkSynced(fn)
}

// OnSyncCompleted registers a callback for completed runs.
func (c *client) OnSyncCompleted(fn SyncCompletedHook) {
	c.hooks.onSyncCompleted(fn)
}

// hooks manages event callbacks for sync events.
type hooks struct {
	mu        sync.RWMutex
	created   []RecordCreatedHook
	synced    []BookmarkSyncedHook
	completed []SyncCompletedHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) onRecordCreated(fn RecordCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, fn)
}

func (h *hooks) onBookmarkSynced(fn BookmarkSyncedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.synced = append(h.synced, fn)
}

func (h *hooks) onSyncCompleted(fn SyncCompletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, fn)
}

// triggerRecordCreated notifies callbacks of a created record.
func (h *hooks) triggerRecordCreated(b bookmarks.Bookmark) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.created {
		hook(b)
	}
}

// triggerBookmarkSynced notifies callbacks of a reconciled bookmark.
func (h *hooks) triggerBookmarkSynced(b bookmarks.Bookmark, matched, unmatched int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.synced {
		hook(b, matched, unmatched)
	}
}

// triggerSyncCompleted notifies callbacks of a finished run.
func (h *hooks) triggerSyncCompleted(result Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.completed {
		hook(result)
	}
}
