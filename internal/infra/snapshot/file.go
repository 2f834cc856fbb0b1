// Package snapshot keeps the latest report fetch as a JSON file on disk.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
)

// FileStore implements domain.SnapshotStore.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Write overwrites the snapshot with reports as an indented JSON array.
// Reports decoded from the provider are written as received.
func (s *FileStore) Write(_ context.Context, reports []domain.Report) error {
	if reports == nil {
		reports = []domain.Report{}
	}
	b, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileStore) Read(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSnapshotNotFound
	}
	return b, err
}
