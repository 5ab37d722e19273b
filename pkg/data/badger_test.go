package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBacking(t *testing.T) *BadgerBacking {
	t.Helper()
	backing, err := OpenBacking(InMemoryBackingConfig())
	require.NoError(t, err)
	t.Cleanup(func() { backing.Close() })
	return backing
}

func TestBackingSetGet(t *testing.T) {
	backing := newTestBacking(t)
	ctx := context.Background()

	require.NoError(t, backing.Set(ctx, KeyFavorites, `[]`))
	value, err := backing.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	// whole-value overwrite
	require.NoError(t, backing.Set(ctx, KeyFavorites, `[{"url":"book1"}]`))
	value, err = backing.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `[{"url":"book1"}]`, value)
}

func TestBackingGetMissingKey(t *testing.T) {
	backing := newTestBacking(t)

	_, err := backing.Get(context.Background(), "never-written")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackingDelete(t *testing.T) {
	backing := newTestBacking(t)
	ctx := context.Background()

	require.NoError(t, backing.Set(ctx, KeySettings, `{}`))
	require.NoError(t, backing.Delete(ctx, KeySettings))
	_, err := backing.Get(ctx, KeySettings)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is fine
	assert.NoError(t, backing.Delete(ctx, KeySettings))
}

func TestBackingOnDiskRequiresPath(t *testing.T) {
	_, err := OpenBacking(BackingConfig{})
	assert.Error(t, err)
}
