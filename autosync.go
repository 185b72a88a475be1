package rwdt

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

var _ AutoSyncer = (*client)(nil)

// AutoSyncer provides controls for background sync runs.
type AutoSyncer interface {
	// AutoSyncOn begins background syncs on the configured interval
	AutoSyncOn() error

	// AutoSyncOff stops background syncs
	AutoSyncOff() error
}

// AutoSyncOn begins background syncs on the configured interval.
func (c *client) AutoSyncOn() error {
	if c.options.syncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "syncInterval",
			Value:   c.options.syncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Calling AutoSyncOn twice replaces the previous schedule.
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	// AutoSyncOff closed stopCh, so the new loop needs a fresh one.
	c.stopCh = make(chan struct{})

	c.syncTicker = time.NewTicker(c.options.syncInterval)

	// The loop runs until AutoSyncOff cancels this context.
	ctx, cancel := context.WithCancel(context.Background())
	c.syncCancel = cancel

	go func(parentCtx context.Context) {
		for {
			select {
			case <-c.syncTicker.C:
				// Bound each run so a hung store cannot wedge the loop
				syncCtx, syncCancel := context.WithTimeout(parentCtx, constants.SyncContextTimeout)
				_, err := c.Sync(syncCtx)
				syncCancel()

				if err != nil {
					// Cancellation means the client is shutting down.
					if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
						return
					}
					// A failed run does not stop the schedule; the
					// next tick retries.
					logging.Error().Err(err).Msg("Background sync failed")
				}
			case <-parentCtx.Done():
				return
			case <-c.stopCh:
				return
			}
		}
	}(ctx)

	return nil
}

// AutoSyncOff stops background syncs.
func (c *client) AutoSyncOff() error {
	if c.syncTicker != nil {
		c.syncTicker.Stop()
		c.syncTicker = nil
	}
	if c.syncCancel != nil {
		c.syncCancel()
		c.syncCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
