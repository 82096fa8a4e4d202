package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalvah/planease/internal/apperr"
)

// FS implements Provider backed by the local file system: one JSON document
// per key under a root directory.
type FS struct {
	root string // absolute path to the state directory
}

// NewFS creates a new FS provider rooted at the given directory, creating it
// if necessary.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute state directory, for watchers.
func (f *FS) Root() string {
	return f.root
}

// keyPath maps a storage key to an absolute file path and rejects keys that
// would escape the state directory.
func (f *FS) keyPath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	cleaned := filepath.Clean(key)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid key: %s", key)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned+".json"))
	if err != nil {
		return "", fmt.Errorf("storage: resolve key: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: key escapes state dir: %s", key)
	}
	return abs, nil
}

// KeyFile returns the file name a key is stored under, relative to Root.
func KeyFile(key string) string {
	return key + ".json"
}

// Get returns the blob stored under key.
func (f *FS) Get(key string) ([]byte, error) {
	abs, err := f.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically writes the blob: tmp file → fsync → rename.
func (f *FS) Set(key string, value []byte) error {
	abs, err := f.keyPath(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.root, ".planease-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the blob under key; absent keys are a no-op.
func (f *FS) Delete(key string) error {
	abs, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FS) Close() error {
	return nil
}
