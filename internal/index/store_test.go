package index_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/pkg/api"
)

func newEntry(fp api.Fingerprint, srcID string) api.Entry {
	return api.Entry{
		ImHash:     fp,
		Src:        "danbooru",
		SrcID:      srcID,
		SrcURL:     "https://danbooru.example/posts/" + srcID,
		Characters: []string{"hatsune_miku"},
		Rating:     api.RatingSafe,
	}
}

func TestKVStore_Insert_FirstTimeSucceeds(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0x01, 0x02}
	inserted, existing, err := s.Insert(ctx, newEntry(fp, "100"))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "100", existing)

	ok, err := s.Exists(ctx, fp)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKVStore_Insert_DuplicateIsRejected(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0x03, 0x04}
	_, _, err := s.Insert(ctx, newEntry(fp, "200"))
	require.NoError(t, err)

	inserted, existing, err := s.Insert(ctx, newEntry(fp, "201"))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "200", existing)
}

func TestKVStore_Insert_PopulatesAllBytePositions(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0xAB, 0xCD}
	_, _, err := s.Insert(ctx, newEntry(fp, "300"))
	require.NoError(t, err)

	isMember, err := c.SIsMember(ctx, kv.HashIdxKey(0, 0xAB), fp[:])
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = c.SIsMember(ctx, kv.HashIdxKey(1, 0xCD), fp[:])
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestKVStore_Insert_AddsCharacterReverseIndex(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0x05}
	_, _, err := s.Insert(ctx, newEntry(fp, "400"))
	require.NoError(t, err)

	isMember, err := c.SIsMember(ctx, kv.CharacterKey("hatsune_miku"), fp[:])
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestKVStore_Load_NotFoundReturnsSentinel(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	_, err := s.Load(ctx, api.Fingerprint{0xFF})
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestKVStore_Load_RoundTrips(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0x06, 0x07}
	entry := newEntry(fp, "500")
	_, _, err := s.Insert(ctx, entry)
	require.NoError(t, err)

	loaded, err := s.Load(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, entry.Src, loaded.Src)
	assert.Equal(t, entry.SrcID, loaded.SrcID)
	assert.Equal(t, entry.Rating, loaded.Rating)
	assert.ElementsMatch(t, entry.Characters, loaded.Characters)
}

func TestKVStore_Insert_AddsSrcIDToIndexedSetEvenOnDuplicate(t *testing.T) {
	ctx := context.Background()
	c := kv.NewMemoryClient()
	s := index.NewKVStore(c)

	fp := api.Fingerprint{0x08}
	_, _, err := s.Insert(ctx, newEntry(fp, "600"))
	require.NoError(t, err)
	_, _, err = s.Insert(ctx, newEntry(fp, "601"))
	require.NoError(t, err)

	isMember, err := c.SIsMember(ctx, kv.IndexedKey("danbooru"), []byte("601"))
	require.NoError(t, err)
	assert.True(t, isMember, "indexed:{src} gets the id unconditionally, even on a duplicate fingerprint")
}
