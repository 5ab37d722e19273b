package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence means the backing rejected a read or write. In-memory
	// state only reflects writes that were accepted.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptData means a persisted value failed to parse.
	ErrCorruptData = errors.New("corrupt data")
)

func persistErr(key string, err error) error {
	return fmt.Errorf("%w: write %s: %w", ErrPersistence, key, err)
}

func corruptErr(key string, err error) error {
	return fmt.Errorf("%w: parse %s: %w", ErrCorruptData, key, err)
}
