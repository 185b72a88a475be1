package app

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// Execute parses args and runs the selected subcommand. main.go calls
// this once per process.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand assembles the root cobra command, its persistent
// flags, and every subcommand.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rwdt",
		Short:   "Sync Readwise highlights into DEVONthink",
		Version: a.version,
		Long: `rwdt reconciles your Readwise reading highlights with the document
copies stored in DEVONthink (or a plain folder of markdown files).

Each run fetches the bookmarks that changed since the last run, creates
records for new bookmarks, wraps matched highlight spans in CriticMarkup
{==...==} markers, and merges the rendered annotation block with the one
already stored. Highlights you made on your e-reader or in the Readwise
apps show up inside the documents you already filed.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is ~/.config/rwdt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "debug-level output (same as --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "warnings and errors only (same as --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable color in console output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "explicit log level: trace, debug, info, warn, or error (wins over -v/-q)")

	// --version prints the same line as the version subcommand.
	rootCmd.SetVersionTemplate("rwdt {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand runs before every subcommand. It folds the parsed global
// flags into the configuration and rebuilds the logger so they take
// effect.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands attaches the subcommands to the root.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewListCommand())
	rootCmd.AddCommand(a.NewWatchCommand())
	rootCmd.AddCommand(a.NewWatermarkCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// Exit prints an error and exits with the appropriate status code:
// 2 for configuration and usage problems, 1 for everything else.
// main.go calls it with whatever Execute returned.
func Exit(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var configErr *errors.ConfigError
	if stderrors.As(err, &configErr) {
		return 2
	}
	if errors.IsValidationError(err) || stderrors.Is(err, errors.ErrTokenRequired) {
		return 2
	}
	return 1
}

// mustGetBool reads a persistent flag registered above. A missing flag
// is a programming error, so it panics.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("flag " + name + " is not registered: " + err.Error())
	}
	return val
}

// mustGetString reads a persistent flag registered above. A missing
// flag is a programming error, so it panics.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("flag " + name + " is not registered: " + err.Error())
	}
	return val
}
