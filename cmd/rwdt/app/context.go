package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals derives a context that ends on SIGINT or SIGTERM.
// Commands run under it, so an interrupt cancels an in-flight sync and
// the watch loop instead of killing the process mid-write.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
