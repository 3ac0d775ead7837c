package export_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/export"
	"github.com/lorehash/boorudex/pkg/api"
)

func TestSnapshot_WriteAllAndStats(t *testing.T) {
	dir := t.TempDir()
	snap, err := export.Open(filepath.Join(dir, "snapshot.sqlite3"))
	require.NoError(t, err)
	defer snap.Close()

	entries := []api.Entry{
		{ImHash: api.Fingerprint{0x01}, Src: "danbooru", SrcID: "1", SrcURL: "u1", Rating: api.RatingSafe, Characters: []string{"a"}},
		{ImHash: api.Fingerprint{0x02}, Src: "danbooru", SrcID: "2", SrcURL: "u2", Rating: api.RatingQuestionable, Characters: []string{"a", "b"}},
	}

	require.NoError(t, snap.WriteAll(context.Background(), entries))

	stats, err := snap.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalEntries)
}

func TestSnapshot_WriteAllIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	snap, err := export.Open(filepath.Join(dir, "snapshot.sqlite3"))
	require.NoError(t, err)
	defer snap.Close()

	entry := api.Entry{ImHash: api.Fingerprint{0x03}, Src: "danbooru", SrcID: "3", SrcURL: "u3", Rating: api.RatingExplicit}

	require.NoError(t, snap.WriteAll(context.Background(), []api.Entry{entry}))
	require.NoError(t, snap.WriteAll(context.Background(), []api.Entry{entry}))

	stats, err := snap.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalEntries)
}
