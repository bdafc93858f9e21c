package storage

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	lockTimeout = 10 * time.Second
	lockRetry   = 100 * time.Millisecond
)

// Lock is a directory lock: holding it means having created the directory.
// Two readers running at once serialize their skip file writes on it.
type Lock struct {
	dir string
}

// NewLock creates a new lock at the given directory path.
func NewLock(dir string) *Lock {
	return &Lock{dir: dir}
}

// Acquire creates the lock directory, retrying until ctx is done or the
// lock timeout elapses.
func (l *Lock) Acquire(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	for {
		err := os.Mkdir(l.dir, FileModeDir)
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock directory: %w", err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("lock %s held by another process: %w", l.dir, ctx.Err())
		case <-time.After(lockRetry):
		}
	}
}

// Release releases the lock by removing the directory.
func (l *Lock) Release() error {
	return os.Remove(l.dir)
}

// WithLock executes fn while holding the lock.
func WithLock(ctx context.Context, dir string, fn func() error) error {
	lock := NewLock(dir)
	if err := lock.Acquire(ctx); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Release()
	return fn()
}
