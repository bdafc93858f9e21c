// Package storage persists the set of skipped story ids between sessions.
package storage

import (
	"context"

	"github.com/cristianoliveira/hnreader/internal/story"
)

// SkipStore loads the skip set at startup and writes it back at shutdown.
type SkipStore interface {
	LoadSkipSet(ctx context.Context) (story.IDSet, error)
	// SaveSkipSet replaces the persisted set with ids.
	SaveSkipSet(ctx context.Context, ids story.IDSet) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}
