// Package session keeps the body of the last script run so it can be
// reloaded when no script file is given.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jeeftor/automaton/internal/filesystem"
	"github.com/jeeftor/automaton/internal/logging"
)

// ErrNoSession is returned by Load when nothing has been saved yet
var ErrNoSession = errors.New("no saved script")

// Store persists the last script at a fixed path
type Store struct {
	path string
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored script with source
func (s *Store) Save(source string) error {
	if err := filesystem.WriteFileAtomic(s.path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("autosave %s: %w", s.path, err)
	}
	logging.Debug("Script autosaved", "path", s.path, "bytes", len(source))
	return nil
}

// Load returns the stored script
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", s.path, err)
	}
	logging.LoadFile(s.path)
	return string(data), nil
}

// Clear removes the stored script
func (s *Store) Clear() error {
	return filesystem.SafeRemove(s.path)
}
