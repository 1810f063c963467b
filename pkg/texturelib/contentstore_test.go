package texturelib_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	memorystorage "github.com/skinloft/texture-library/pkg/texturelib/storage/memory"
)

func TestContentStore_PutIsIdempotent(t *testing.T) {
	store := texturelib.NewContentStore(memorystorage.New())
	ctx := context.Background()

	data := []byte("pixel data")

	hash1, err := store.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, texturelib.HashBytes(data), hash1)

	// Writing already-present content is a no-op returning the same key
	hash2, err := store.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)

	got, err := store.Get(ctx, hash1)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestContentStore_DistinctContentDistinctKeys(t *testing.T) {
	store := texturelib.NewContentStore(memorystorage.New())
	ctx := context.Background()

	hash1, err := store.Put(ctx, []byte("one"))
	require.NoError(t, err)
	hash2, err := store.Put(ctx, []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestContentStore_MissingBlob(t *testing.T) {
	store := texturelib.NewContentStore(memorystorage.New())
	ctx := context.Background()

	missing := texturelib.HashBytes([]byte("never stored"))

	has, err := store.Has(ctx, missing)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.Get(ctx, missing)
	assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)

	err = store.Delete(ctx, missing)
	assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)
}

func TestContentStore_Delete(t *testing.T) {
	store := texturelib.NewContentStore(memorystorage.New())
	ctx := context.Background()

	hash, err := store.Put(ctx, []byte("ephemeral"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, hash))

	has, err := store.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, has)
}
