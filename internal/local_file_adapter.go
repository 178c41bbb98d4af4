package internal

import (
	"os"
	"path/filepath"
)

// LocalFileStore is the backup directory on local disk.
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalFileStore{dir: dir}, nil
}

func (s *LocalFileStore) Dir() string {
	return s.dir
}

// Create opens name inside the backup directory for writing, truncating any
// existing file.
func (s *LocalFileStore) Create(name string) (*os.File, error) {
	return os.Create(filepath.Join(s.dir, name))
}

func (s *LocalFileStore) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
