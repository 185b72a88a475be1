// Package errors defines the error taxonomy for readwise-to-devonthink.
// Typed errors carry what the pipeline knows about a failure (which
// bookmark, which stage, which script, which file) and map onto
// sentinels through their Is methods, so callers decide what to skip,
// retry, or abort with plain errors.Is checks.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text. Re-exported so
// importers need only one errors package.
var New = errors.New

// Sentinels the typed errors below map onto.
var (
	// ErrNotFound marks a record or annotation missing from the store.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a record the store already holds.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput marks rejected options or configuration values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenRequired marks a missing Readwise access token.
	ErrTokenRequired = errors.New("access token required")

	// ErrTokenInvalid marks a token the highlight source rejected.
	ErrTokenInvalid = errors.New("access token invalid")

	// ErrSourceUnavailable marks a highlight source answering 5xx.
	ErrSourceUnavailable = errors.New("highlight source unavailable")

	// ErrRateLimited marks a 429 from the highlight source.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout marks an operation that ran out of time.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled marks an operation ended by context cancellation.
	ErrCanceled = errors.New("operation canceled")
)

// APIError is a non-2xx answer from the highlight source. Its Is method
// maps the status code onto the matching sentinel, so a caller can ask
// errors.Is(err, ErrRateLimited) without knowing about this type.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error includes the status code when one was received.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps HTTP status codes onto the sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrTokenInvalid
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// NewAPIError builds an APIError without an underlying cause.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NotFoundError names a stored resource that does not exist.
type NotFoundError struct {
	Resource string
	Name     string
}

// Error names the missing resource.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError builds a NotFoundError.
func NewNotFoundError(resource, name string) *NotFoundError {
	return &NotFoundError{Resource: resource, Name: name}
}

// ValidationError is a rejected option, flag, or configuration value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error includes the field name when one is set.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError builds a ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError is a problem assembling the application configuration,
// distinct from ValidationError so the CLI can exit with a usage status
// for both without conflating them in logs.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error includes the component when one is set.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError builds a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// DependencyError marks a missing external dependency, such as the
// osascript binary on a non-macOS host.
type DependencyError struct {
	Dependency string
	Message    string
}

// Error names the missing dependency.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s: %s", e.Dependency, e.Message)
}

// ResourceError is a failed operation on a stored resource: a record,
// an annotation, or the watermark.
type ResourceError struct {
	Operation string
	Resource  string
	Name      string
	Message   string
	Err       error
}

// Error names the operation and, when known, the resource.
func (e *ResourceError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("failed to %s %s %q: %s", e.Operation, e.Resource, e.Name, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError builds a ResourceError, taking its message from err.
func NewResourceError(operation, resource, name string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		Name:      name,
		Message:   message,
		Err:       err,
	}
}

// ProcessError is an external process that failed to run or exited
// non-zero, before any script-level result could be read.
type ProcessError struct {
	Operation string
	Command   string
	Output    string // stderr captured from the process
	ExitCode  int
	Err       error
}

// Error appends the captured output when there is any.
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap exposes the exec error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError builds a ProcessError.
func NewProcessError(operation, command, output string, err error) *ProcessError {
	return &ProcessError{
		Operation: operation,
		Command:   command,
		Output:    output,
		Err:       err,
	}
}

// ScriptError is a failure reported by the document store's scripting
// bridge: the process ran, but the script could not complete the
// requested operation.
type ScriptError struct {
	Operation string
	Title     string
	Message   string
}

// Error includes the record title when one is set.
func (e *ScriptError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("script error during %s for %q: %s", e.Operation, e.Title, e.Message)
	}
	return fmt.Sprintf("script error during %s: %s", e.Operation, e.Message)
}

// ParseError is malformed data: JSON from the source or the scripting
// bridge, YAML from the watermark file, HTML from an article fetch.
type ParseError struct {
	Format  string
	Source  string
	Message string
	Err     error
}

// Error includes the source when one is set.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap exposes the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError.
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// IOError is a filesystem or network I/O failure.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

// Error includes the path when one is set.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError builds an IOError, taking its message from err.
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// SyncError wraps a failure while reconciling one bookmark. The
// pipeline collects these and moves on to the next bookmark; the run as
// a whole does not fail.
type SyncError struct {
	Title string
	Stage string
	Err   error
}

// Error names the bookmark and, when known, the pipeline stage.
func (e *SyncError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("sync error for %q during %s: %v", e.Title, e.Stage, e.Err)
	}
	return fmt.Sprintf("sync error for %q: %v", e.Title, e.Err)
}

// Unwrap exposes the stage failure.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError builds a SyncError.
func NewSyncError(title, stage string, err error) *SyncError {
	return &SyncError{
		Title: title,
		Stage: stage,
		Err:   err,
	}
}

// Predicates over the sentinels, for call sites that read better
// without an errors.Is.

// IsNotFound reports whether err means a missing record or annotation.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err means the record already exists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError reports whether err means rejected input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTokenError reports whether err is a missing or rejected token.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenRequired) || errors.Is(err, ErrTokenInvalid)
}

// IsRateLimited reports whether err means the source throttled us.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout reports whether err means an operation ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled reports whether err means an operation was canceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsSourceUnavailable reports whether err means the source is down.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// Wrap helpers. Each returns nil for a nil err, so call sites can wrap
// unconditionally.

// WrapValidation wraps err as a ValidationError on the given field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps err as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps err as a ResourceError.
func WrapResource(operation, resource, name string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, name, err)
}

// WrapParse wraps err as a ParseError.
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapSync wraps err as a SyncError for per-bookmark isolation.
func WrapSync(title, stage string, err error) error {
	if err == nil {
		return nil
	}
	return NewSyncError(title, stage, err)
}
