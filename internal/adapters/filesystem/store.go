package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"prompttree/internal/ports"
)

// Store implements ports.BlobStore as one JSON file per key
type Store struct {
	dir string
}

// Ensure Store implements BlobStore and BatchWriter
var (
	_ ports.BlobStore   = (*Store)(nil)
	_ ports.BatchWriter = (*Store)(nil)
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, dir[1:])
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the blob files
func (s *Store) Dir() string {
	return s.dir
}

// Get reads the file for key
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ports.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes the file for key atomically via a temp file and rename
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key; absent keys are not an error
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PutBatch writes each entry in turn. Each file is replaced atomically,
// the batch as a whole is not.
func (s *Store) PutBatch(ctx context.Context, entries map[string][]byte) error {
	for key, data := range entries {
		var err error
		if data == nil {
			err = s.Delete(ctx, key)
		} else {
			err = s.Put(ctx, key, data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
