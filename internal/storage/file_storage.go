package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/story"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644
)

// FileStore keeps the skip set in a single count-prefixed text file.
type FileStore struct {
	path string
}

var _ SkipStore = (*FileStore)(nil)

// NewFileStore creates a store at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return nil, fmt.Errorf("file storage: create directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the skip file location.
func (fs *FileStore) Path() string {
	return fs.path
}

// LoadSkipSet reads the skip file. A missing file is an empty set; a damaged
// file yields the ids read before the damage.
func (fs *FileStore) LoadSkipSet(ctx context.Context) (story.IDSet, error) {
	f, err := os.Open(fs.path)
	if os.IsNotExist(err) {
		return story.NewIDSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: open: %w", err)
	}
	defer f.Close()

	ids, err := ParseSkipFile(f)
	if err != nil {
		colors.Warning(fmt.Sprintf("skip file %s is damaged, kept %d ids: %v", fs.path, len(ids), err))
	}
	return ids, nil
}

// SaveSkipSet writes to a temp file and renames it over the skip file.
func (fs *FileStore) SaveSkipSet(ctx context.Context, ids story.IDSet) error {
	return WithLock(ctx, fs.path+".lock", func() error {
		tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".tmp-*")
		if err != nil {
			return fmt.Errorf("file storage: create temp: %w", err)
		}
		defer os.Remove(tmp.Name())

		if err := WriteSkipFile(tmp, ids); err != nil {
			tmp.Close()
			return fmt.Errorf("file storage: write: %w", err)
		}
		if err := tmp.Chmod(FileModeFile); err != nil {
			tmp.Close()
			return fmt.Errorf("file storage: chmod: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("file storage: close temp: %w", err)
		}
		if err := os.Rename(tmp.Name(), fs.path); err != nil {
			return fmt.Errorf("file storage: replace: %w", err)
		}
		return nil
	})
}

// Count returns the number of persisted ids.
func (fs *FileStore) Count(ctx context.Context) (int, error) {
	ids, err := fs.LoadSkipSet(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Clear forgets every skipped id.
func (fs *FileStore) Clear(ctx context.Context) error {
	return fs.SaveSkipSet(ctx, story.NewIDSet())
}

// Close is a no-op; the file is only open during a call.
func (fs *FileStore) Close() error {
	return nil
}
