package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/cristianoliveira/hnreader/internal/colors"
	"github.com/cristianoliveira/hnreader/internal/storage"
)

// SkippedUseCase inspects and resets the persisted skip set.
type SkippedUseCase struct {
	store storage.SkipStore
}

// NewSkippedUseCase creates a skipped-stories use case.
func NewSkippedUseCase(store storage.SkipStore) *SkippedUseCase {
	if store == nil {
		panic("NewSkippedUseCase: store dependency cannot be nil")
	}
	return &SkippedUseCase{store: store}
}

// List writes one skipped story id per line, ascending.
func (u *SkippedUseCase) List(ctx context.Context, w io.Writer) error {
	ids, err := u.store.LoadSkipSet(ctx)
	if err != nil {
		return fmt.Errorf("skipped: failed to load: %w", err)
	}
	if len(ids) == 0 {
		colors.Info("No skipped stories")
		return nil
	}
	for _, id := range ids.Sorted() {
		if _, err := fmt.Fprintln(w, strconv.FormatUint(id, 10)); err != nil {
			return err
		}
	}
	return nil
}

// Count writes the number of skipped stories.
func (u *SkippedUseCase) Count(ctx context.Context, w io.Writer) error {
	n, err := u.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("skipped: failed to count: %w", err)
	}
	_, err = fmt.Fprintln(w, n)
	return err
}

// Clear forgets every skipped story once confirm agrees. A nil confirm
// clears without asking.
func (u *SkippedUseCase) Clear(ctx context.Context, confirm func() bool) error {
	if confirm != nil && !confirm() {
		colors.Info("Operation cancelled")
		return nil
	}
	if err := u.store.Clear(ctx); err != nil {
		return fmt.Errorf("skipped: failed to clear: %w", err)
	}
	colors.Success("Skipped stories cleared")
	return nil
}
