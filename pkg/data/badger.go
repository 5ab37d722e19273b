package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Persisted keys. Each holds one whole JSON-encoded record; there are no
// transactions across keys.
const (
	KeyFavorites    = "favorites"
	KeyReadChapters = "readChapters"
	KeySettings     = "settings"
)

// ErrNotFound means a key has never been written. Callers treat it as an
// empty state, not a failure.
var ErrNotFound = errors.New("not found")

// Backing is the durable key/value medium underneath the store. Values are
// opaque strings; durability is per key.
type Backing interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BackingConfig configures the BadgerDB backing.
type BackingConfig struct {
	// Path is the directory for the database files. Ignored when InMemory
	// is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write. On by default for on-disk databases.
	SyncWrites bool

	// Logger receives badger's internal messages. Nil disables them.
	Logger *slog.Logger
}

// DefaultBackingConfig returns the production configuration for the given
// data directory.
func DefaultBackingConfig(path string) BackingConfig {
	return BackingConfig{Path: path, SyncWrites: true}
}

// InMemoryBackingConfig returns a configuration for tests: no disk, no sync.
func InMemoryBackingConfig() BackingConfig {
	return BackingConfig{InMemory: true}
}

// BadgerBacking implements Backing on a BadgerDB instance.
type BadgerBacking struct {
	db *badger.DB
}

// OpenBacking opens (or creates) the database described by cfg.
func OpenBacking(cfg BackingConfig) (*BadgerBacking, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("backing: path required for on-disk database")
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("backing: open: %w", err)
	}
	return &BadgerBacking{db: db}, nil
}

func (b *BadgerBacking) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("backing: get %q: %w", key, err)
	}
	return value, nil
}

func (b *BadgerBacking) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("backing: set %q: %w", key, err)
	}
	return nil
}

func (b *BadgerBacking) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("backing: delete %q: %w", key, err)
	}
	return nil
}

func (b *BadgerBacking) Close() error {
	return b.db.Close()
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Info(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug(fmt.Sprintf(format, args...))
}
