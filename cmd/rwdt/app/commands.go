package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"time"

	"github.com/agentstation/utc"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	rwdt "github.com/ttscoff/readwise-to-devonthink"
	"github.com/ttscoff/readwise-to-devonthink/internal/watermark"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
	"github.com/ttscoff/readwise-to-devonthink/pkg/logging"
)

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	var (
		dryRun bool
		all    bool
		since  string
		limit  int
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile Readwise highlights with the document store",
		Long: `Sync fetches the bookmarks that changed since the last run, creates
records for the ones the store has never seen, wraps matched highlight
spans in {==...==} markers, and merges annotation blocks.

Bookmarks that fail are logged and skipped; the run continues. The
watermark advances only when the run completes.`,
		Example: `  rwdt sync
  rwdt sync --dry-run
  rwdt sync --all
  rwdt sync --since 2025-06-01 --limit 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}

			sinceTime, err := parseSince(since)
			if err != nil {
				return err
			}

			opts := []rwdt.SyncOption{
				rwdt.WithDryRun(dryRun),
				rwdt.WithAll(all),
				rwdt.WithLimit(limit),
			}
			if !sinceTime.IsZero() {
				opts = append(opts, rwdt.WithSince(sinceTime))
			}
			if a.config.Timeout > 0 {
				opts = append(opts, rwdt.WithTimeout(a.config.Timeout))
			}

			ctx := logging.WithLogger(cmd.Context(), a.logger)
			result, err := client.Sync(ctx, opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			for _, e := range result.Errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
			}
			if strict && result.HasErrors() {
				return fmt.Errorf("%d of %d bookmarks failed", len(result.Errs), result.Fetched)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing anything")
	cmd.Flags().BoolVar(&all, "all", false, "ignore the watermark and process everything")
	cmd.Flags().StringVar(&since, "since", "", "fetch changes since this time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "process at most this many bookmarks (0 = no limit)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any bookmark fails")

	return cmd
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	var (
		all            bool
		since          string
		limit          int
		showHighlights bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks and highlights without touching the store",
		Long: `List fetches the same window a sync would process and prints what it
finds, one bookmark per line. Nothing is written anywhere.`,
		Example: `  rwdt list
  rwdt list --all --limit 20
  rwdt list --highlights`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := a.Source()
			if err != nil {
				return err
			}

			sinceTime, err := parseSince(since)
			if err != nil {
				return err
			}
			if sinceTime.IsZero() && !all {
				// Default to the same window sync would use
				sinceTime, err = watermark.New(a.config.WatermarkPath).Load()
				if err != nil {
					return err
				}
			}

			ctx := logging.WithLogger(cmd.Context(), a.logger)
			bks, err := source.Fetch(ctx, sinceTime)
			if err != nil {
				return err
			}
			if limit > 0 && len(bks) > limit {
				bks = bks[:limit]
			}

			out := cmd.OutOrStdout()
			if len(bks) == 0 {
				fmt.Fprintln(out, "No bookmarks in this window.")
				return nil
			}
			for i := range bks {
				b := &bks[i]
				fmt.Fprintf(out, "%s (%s) %d highlights\n", b.DisplayTitle(), b.Kind, len(b.Highlights))
				if showHighlights {
					for _, h := range b.Highlights {
						fmt.Fprintf(out, "    %s\n", h.Text)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "ignore the watermark and list everything")
	cmd.Flags().StringVar(&since, "since", "", "list changes since this time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "list at most this many bookmarks (0 = no limit)")
	cmd.Flags().BoolVar(&showHighlights, "highlights", false, "print each highlight under its bookmark")

	return cmd
}

// NewWatchCommand creates the watch command.
func (a *App) NewWatchCommand() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled syncs until interrupted",
		Long: `Watch validates the Readwise token, syncs once immediately, then keeps
syncing on the given cron schedule until the process is signalled.`,
		Example: `  rwdt watch
  rwdt watch --schedule "@every 30m"
  rwdt watch --schedule "0 7 * * *"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			// Fail fast on a bad token before scheduling hours of runs
			source, err := a.Source()
			if err != nil {
				return err
			}
			if err := source.CheckAuth(ctx); err != nil {
				return err
			}

			client, err := a.Client()
			if err != nil {
				return err
			}

			runOnce := func() {
				result, err := client.Sync(ctx, rwdt.WithTimeout(a.config.Timeout))
				if err != nil {
					if stderrors.Is(err, context.Canceled) {
						return
					}
					a.logger.Error().Err(err).Msg("Scheduled sync failed")
					return
				}
				a.logger.Info().Msg(result.Summary())
			}

			scheduler := cron.New()
			if _, err := scheduler.AddFunc(schedule, runOnce); err != nil {
				return &errors.ValidationError{
					Field:   "schedule",
					Value:   schedule,
					Message: "invalid cron spec",
				}
			}

			runOnce()
			scheduler.Start()
			a.logger.Info().Str("schedule", schedule).Msg("Watching for highlight changes")

			<-ctx.Done()

			// Let any in-flight run finish before exiting
			stopCtx := scheduler.Stop()
			<-stopCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", a.config.Schedule, "cron spec for sync runs")

	return cmd
}

// NewWatermarkCommand creates the watermark command and its subcommands.
func (a *App) NewWatermarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watermark",
		Short: "Inspect or reset the sync watermark",
		Long: `The watermark is the single timestamp rwdt persists between runs. A sync
fetches only bookmarks that changed after it; resetting it makes the
next sync process everything again.`,
	}

	cmd.AddCommand(a.newWatermarkShowCommand())
	cmd.AddCommand(a.newWatermarkResetCommand())

	return cmd
}

func (a *App) newWatermarkShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the persisted watermark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wm := watermark.New(a.config.WatermarkPath)
			t, err := wm.Load()
			if err != nil {
				return err
			}
			if t.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "No watermark recorded; the next sync processes everything.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", t.Format(time.RFC3339), wm.Path())
			return nil
		},
	}
}

func (a *App) newWatermarkResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the persisted watermark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wm := watermark.New(a.config.WatermarkPath)
			if err := wm.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Watermark cleared; the next sync processes everything.")
			return nil
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the rwdt CLI.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rwdt version %s\n", a.version)
			fmt.Fprintf(out, "commit: %s\n", a.commit)
			fmt.Fprintf(out, "built: %s\n", a.date)
			fmt.Fprintf(out, "built by: %s\n", a.builtBy)
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// parseSince parses a --since flag value. Both RFC 3339 timestamps and
// plain dates are accepted; an empty value means no explicit window.
func parseSince(value string) (utc.Time, error) {
	if value == "" {
		return utc.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return utc.Time{Time: t.UTC()}, nil
		}
	}
	return utc.Time{}, &errors.ValidationError{
		Field:   "since",
		Value:   value,
		Message: "must be RFC 3339 or YYYY-MM-DD",
	}
}
