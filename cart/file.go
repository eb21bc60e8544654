package cart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// NewFileBackend stores the serialized cart in a JSON file at path. Used for
// standalone runs with no Redis around.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// FileBackend keeps the cart record in a single file on disk.
type FileBackend struct {
	path string
}

func (f *FileBackend) Get(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file failed: %w", err)
	}
	return data, nil
}

func (f *FileBackend) Set(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), os.ModePerm); err != nil {
		return fmt.Errorf("create cart directory failed: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write cart file failed: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cart file failed: %w", err)
	}
	return nil
}
