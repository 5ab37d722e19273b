package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/balrog57/chireaders/pkg/data"
)

// mergeSaveFavorites is the conflict-safe write primitive for delayed
// mutations of the favorites record: re-read the backing, apply the merge
// function to that fresh copy, and write back only when something changed.
//
// Because the read, merge and write are one synchronous section with no
// intervening I/O besides the read and write themselves, any edit committed
// by another actor before the re-read is preserved. The naive alternative
// (mutate a snapshot taken before a long scan, then write it) would discard
// every concurrent edit made during the scan. Any future background mutator
// of favorites should go through here rather than reimplement the protocol.
//
// The merge function receives the current list (which it may mutate in
// place) and reports whether anything changed; favorites it does not touch
// pass through as-is, so concurrent additions and removals survive.
func mergeSaveFavorites(ctx context.Context, b data.Backing, merge func([]data.Favorite) ([]data.Favorite, bool)) (bool, error) {
	current, err := loadFavorites(ctx, b)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			// every favorite was removed while scanning; nothing to merge
			return false, nil
		}
		return false, fmt.Errorf("re-read favorites: %w", err)
	}

	merged, changed := merge(current)
	if !changed {
		return false, nil
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return false, fmt.Errorf("encode favorites: %w", err)
	}
	if err := b.Set(ctx, data.KeyFavorites, string(raw)); err != nil {
		return false, fmt.Errorf("write favorites: %w", err)
	}
	return true, nil
}
