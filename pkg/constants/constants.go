// Package constants provides shared constants used throughout the
// readwise-to-devonthink codebase. This includes timeouts, limits, file
// permissions, and other configuration values that should be consistent
// across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the highlight source
	DefaultHTTPTimeout = 30 * time.Second

	// FetchTimeout is the timeout for downloading article content for new records
	FetchTimeout = 45 * time.Second

	// ScriptTimeout is the timeout for a single osascript invocation
	ScriptTimeout = 60 * time.Second

	// SyncContextTimeout is the timeout for one full sync run
	SyncContextTimeout = 15 * time.Minute

	// DefaultSyncInterval is the default interval between automatic sync runs
	DefaultSyncInterval = 1 * time.Hour

	// RetryAfterFallback is the wait applied when a rate-limit response
	// carries no usable Retry-After header
	RetryAfterFallback = 5 * time.Second

	// MaxRetryAfter caps how long a rate-limit wait may last
	MaxRetryAfter = 2 * time.Minute
)

// IndexDelay is the default pause between the record-creation phase and the
// highlighting phase, giving the document store time to index new records
// before they are searched for.
const IndexDelay = 5 * time.Second

// DefaultSchedule is the default cron spec for scheduled watch syncs.
const DefaultSchedule = "@hourly"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like state files (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// DefaultPageSize is the page size requested from the highlight source
	DefaultPageSize = 100

	// MaxPages bounds pagination so a cursor bug cannot loop forever
	MaxPages = 1000

	// MaxBodyBytes caps how much of a fetched article body is read
	MaxBodyBytes = 4 << 20
)

// Service constants identify external collaborators
const (
	// ReadwiseBaseURL is the base URL of the Readwise API
	ReadwiseBaseURL = "https://readwise.io/api/v2"

	// ReadwiseService is the service name used in API errors
	ReadwiseService = "readwise"

	// UserAgent is sent with all outbound HTTP requests
	UserAgent = "readwise-to-devonthink"
)

// Application path constants
const (
	// AppConfigDirName is the directory name under the user config dir
	AppConfigDirName = "rwdt"

	// ConfigFileName is the base name of the config file (without extension)
	ConfigFileName = "config"

	// StateFileName is the name of the watermark state file
	StateFileName = "state.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "RWDT"
)

// Document store constants
const (
	// DefaultDatabase is the DEVONthink database searched when none is configured
	DefaultDatabase = ""

	// DefaultGroup is the group new records are created in
	DefaultGroup = "Readwise"

	// AnnotationSuffix marks sidecar annotation files in the folder backend
	AnnotationSuffix = ".annotation.md"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
