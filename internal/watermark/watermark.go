// Package watermark persists the single piece of cross-run state: the
// moment the last successful sync closed its fetch window. Everything
// else the pipeline needs is re-derived from the store and the highlight
// source on every run.
package watermark

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// State is the on-disk shape of the watermark file.
type State struct {
	LastSync utc.Time `yaml:"last_sync" json:"last_sync"`
}

// Store reads and writes the watermark state file.
type Store struct {
	path string
}

// New creates a watermark store backed by the given file path. An empty
// path resolves to the default state file in the user config directory.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// DefaultPath returns the standard location of the state file, falling
// back to the working directory when no config directory is resolvable.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return constants.StateFileName
	}
	return filepath.Join(configDir, constants.AppConfigDirName, constants.StateFileName)
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Load reads the watermark. A missing file is not an error; it returns
// the zero time, which tells the fetch layer to pull the full export.
func (s *Store) Load() (utc.Time, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return utc.Time{}, nil
	}
	if err != nil {
		return utc.Time{}, errors.WrapIO("read", s.path, err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return utc.Time{}, &errors.ParseError{
			Format:  "yaml",
			Source:  s.path,
			Message: "invalid watermark state",
			Err:     err,
		}
	}
	return state.LastSync, nil
}

// Save writes the watermark, creating the state directory on first use.
func (s *Store) Save(t utc.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(s.path), err)
	}

	data, err := yaml.Marshal(State{LastSync: t})
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}
	if err := os.WriteFile(s.path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}

// Reset removes the watermark so the next sync pulls the full export.
// Resetting an absent watermark is a no-op.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("remove", s.path, err)
	}
	return nil
}
