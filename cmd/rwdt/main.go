// Package main is the entry point for the rwdt command.
package main

import (
	"context"
	"os"
	"time"

	"github.com/ttscoff/readwise-to-devonthink/cmd/rwdt/app"
)

// Build metadata, stamped by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.Exit(err)
	}

	// Interrupts cancel this context; commands stop at their next
	// context check instead of dying mid-write.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	runErr := application.Execute(ctx, os.Args[1:])

	// Shut down on a fresh context; the signal context may already be
	// cancelled while background syncs still deserve a wind-down window.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		application.Logger().Error().Err(err).Msg("Shutdown failed")
	}

	app.Exit(runErr)
}
