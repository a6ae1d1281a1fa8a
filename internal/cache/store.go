package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoPath is returned by Write when the store has no file path, which
// happens when the platform exposes no user cache directory and the caller
// supplied no override.
var ErrNoPath = errors.New("cache path not set")

// cacheFileSuffix is appended to the package name to form the default
// cache file name.
const cacheFileSuffix = "-update-check.json"

// Store reads and writes the single-record cache file. A Store with an
// empty path is valid: reads miss and writes fail with ErrNoPath.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path, empty when caching is disabled.
func (s *Store) Path() string {
	return s.path
}

// Read returns the cached record and true when one could be decoded.
// Every failure mode — missing file, unreadable file, corrupt or
// incomplete contents — is a cache miss, never an error: corruption must
// not block an update check. Content after the first JSON value is
// ignored, so trailing additions to the file do not break older readers.
func (s *Store) Read() (Record, bool) {
	if s.path == "" {
		return Record{}, false
	}

	f, err := os.Open(s.path)
	if err != nil {
		return Record{}, false
	}
	defer f.Close()

	var rec Record
	if decodeErr := json.NewDecoder(f).Decode(&rec); decodeErr != nil {
		return Record{}, false
	}
	if rec.Name == "" || rec.Latest == "" {
		return Record{}, false
	}
	return rec, true
}

// Write persists rec, replacing any previous record. The write goes to a
// temporary file first and is renamed into place so a crash never leaves a
// half-written record behind.
func (s *Store) Write(rec Record) error {
	if s.path == "" {
		return ErrNoPath
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache record: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0750); mkdirErr != nil {
		return fmt.Errorf("creating cache directory: %w", mkdirErr)
	}

	tempPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tempPath, append(data, '\n'), 0600); writeErr != nil {
		return fmt.Errorf("writing cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, s.path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming cache file: %w", renameErr)
	}

	return nil
}

// DefaultPath resolves the per-package cache file under the user cache
// directory. It returns an empty string when the platform exposes no cache
// directory; caching is disabled in that case.
func DefaultPath(name string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, name+cacheFileSuffix)
}
