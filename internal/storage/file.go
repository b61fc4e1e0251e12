package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileSlot stores each key as <dir>/<key>.json. Writes go to a temporary file
// that is renamed over the target, so readers never see a partial payload.
type FileSlot struct {
	mu  sync.Mutex
	dir string
}

func NewFileSlot(dir string) (*FileSlot, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

// Path returns the file backing key.
func (f *FileSlot) Path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (f *FileSlot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return data, nil
}

func (f *FileSlot) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.Path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0o644); err != nil {
		return fmt.Errorf("%w: write temp file: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %w", ErrWrite, filepath.Base(path), err)
	}
	return nil
}
