package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store loads and persists the mapping document at a fixed path.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document from disk. A missing or corrupt file yields an
// empty document, never an error: losing the mapping degrades to a full
// re-sync, which is acceptable, while refusing to run is not. Only genuine
// I/O failures (e.g. permissions) are returned.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		s.log.Warn("State file is corrupt, starting from an empty store; the next run will re-create every event",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return NewDocument(), nil
	}
	return doc, nil
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the old one. A run killed mid-save leaves the
// previous document intact.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the state file. Used by the reset command; a missing file
// is already the desired outcome.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
