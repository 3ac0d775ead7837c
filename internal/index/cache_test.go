package index_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/pkg/api"
)

func TestCachedStore_LoadCachesAfterFirstHit(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	inner := index.NewKVStore(c)
	cached, err := index.NewCachedStore(inner, 8, nil)
	require.NoError(t, err)

	fp := api.Fingerprint{0x10}
	_, _, err = cached.Insert(ctx, newEntry(fp, "700"))
	require.NoError(t, err)

	first, err := cached.Load(ctx, fp)
	require.NoError(t, err)

	require.NoError(t, c.Close())

	second, err := cached.Load(ctx, fp)
	require.NoError(t, err, "second Load must be served from cache once the backing store is closed")
	assert.Equal(t, first, second)
}

func TestCachedStore_InsertInvalidatesCacheEntry(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	inner := index.NewKVStore(c)
	cached, err := index.NewCachedStore(inner, 8, nil)
	require.NoError(t, err)

	fp := api.Fingerprint{0x11}
	entry := newEntry(fp, "800")
	_, _, err = cached.Insert(ctx, entry)
	require.NoError(t, err)

	_, err = cached.Load(ctx, fp)
	require.NoError(t, err)

	_, _, err = cached.Insert(ctx, newEntry(fp, "801"))
	require.NoError(t, err)

	loaded, err := cached.Load(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, "800", loaded.SrcID, "insert is a no-op against an existing fingerprint, so the original entry remains")
}

func TestNewCachedStore_ZeroSizeFallsBackToDefault(t *testing.T) {
	c := kv.NewMemoryClient()
	inner := index.NewKVStore(c)
	cached, err := index.NewCachedStore(inner, 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, cached)
}
