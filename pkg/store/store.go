// Package store abstracts the document store that holds one record per
// bookmark. The DEVONthink backend drives the real application over
// osascript; the folder backend keeps records as markdown files so the
// pipeline runs anywhere and the tests never shell out.
package store

import (
	"context"
	"fmt"
	"runtime"
)

// Backend names accepted in configuration.
const (
	BackendDEVONthink = "devonthink"
	BackendFolder     = "folder"
)

// Record is a stored document as the reconciler sees it.
type Record struct {
	ID    string // backend identifier: DEVONthink UUID or file path
	Title string
	Body  string
}

// NewRecord describes a document to create for a bookmark that has no
// record yet.
type NewRecord struct {
	Title string
	Body  string
	URL   string
	Tags  []string
}

// Store is the document store contract the sync pipeline runs against.
// Lookup returns a not-found error for absent titles; Annotation returns
// an empty string when the record exists but carries no annotation yet.
type Store interface {
	Name() string
	Lookup(ctx context.Context, title string) (*Record, error)
	Create(ctx context.Context, rec NewRecord) error
	ReplaceBody(ctx context.Context, title, body string) error
	Annotation(ctx context.Context, title string) (string, error)
	ReplaceAnnotation(ctx context.Context, title, text string) error
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend  string // devonthink or folder; empty picks the platform default
	Database string // DEVONthink database name, empty searches all
	Group    string // DEVONthink group new records land in
	Path     string // folder backend root directory
}

// New returns the configured backend.
func New(cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = DefaultBackend()
	}

	switch backend {
	case BackendDEVONthink:
		return NewDEVONthink(cfg)
	case BackendFolder:
		return NewFolder(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// DefaultBackend picks DEVONthink on macOS and the folder backend
// everywhere else.
func DefaultBackend() string {
	if runtime.GOOS == "darwin" {
		return BackendDEVONthink
	}
	return BackendFolder
}
