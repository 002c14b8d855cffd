package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage owns the files backing receipts: uploaded proofs of payment
// and generated receipt documents. Paths handed out are relative to the
// store root and opaque to the rest of the system.
type Storage interface {
	// Save writes data under filename and returns the stored path.
	Save(filename string, data []byte) (string, error)

	// Get reads a stored file back.
	Get(path string) ([]byte, error)

	// Delete removes a stored file.
	Delete(path string) error

	// Rename moves a stored file to a new name and returns the new path.
	Rename(oldPath, newName string) (string, error)
}

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

func (l *LocalStorage) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

func (l *LocalStorage) Delete(path string) error {
	if err := os.Remove(filepath.Join(l.basePath, path)); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

func (l *LocalStorage) Rename(oldPath, newName string) (string, error) {
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if err := os.Rename(filepath.Join(l.basePath, oldPath), filepath.Join(l.basePath, newPath)); err != nil {
		return "", fmt.Errorf("renaming file: %w", err)
	}
	return newPath, nil
}
