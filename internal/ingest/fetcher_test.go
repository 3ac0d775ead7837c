package ingest_test

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/ingest"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/pkg/api"
)

func testImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewGray(image.Rect(0, 0, 16, 16))
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				img.Set(x, y, color.Gray{Y: uint8(x * 16)})
			}
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, img)
	}))
}

func TestFetcher_ProcessesQueuedSkeleton(t *testing.T) {
	srv := testImageServer(t)
	defer srv.Close()

	c := kv.NewMemoryClient()
	store := index.NewKVStore(c)
	up := upstream.New("http://unused.invalid", "test-ua", nil)
	f := ingest.NewFetcher(c, up, store, ingest.FetcherConfig{})

	skel := api.Skeleton{Src: "danbooru", SrcID: "99", SrcURL: srv.URL, Characters: []string{"hatsune_miku"}, Rating: api.RatingSafe}
	payload, err := json.Marshal(skel)
	require.NoError(t, err)

	require.NoError(t, c.LPush(context.Background(), kv.IndexQueueKey("hatsune_miku"), payload))
	require.NoError(t, c.LPush(context.Background(), kv.IndexedTagsKey(), []byte("hatsune_miku")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	require.Eventually(t, func() bool {
		isMember, _ := c.SIsMember(context.Background(), kv.IndexedKey("danbooru"), []byte("99"))
		return isMember
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	awaiting, err := c.SIsMember(context.Background(), kv.AwaitingIndexKey("danbooru"), []byte("99"))
	require.NoError(t, err)
	assert.False(t, awaiting)
}

func TestFetcher_SkeletonWithNoURLIsMarkedIndexedWithoutFetch(t *testing.T) {
	c := kv.NewMemoryClient()
	store := index.NewKVStore(c)
	up := upstream.New("http://unused.invalid", "test-ua", nil)
	f := ingest.NewFetcher(c, up, store, ingest.FetcherConfig{})

	skel := api.Skeleton{Src: "danbooru", SrcID: "100"}
	payload, err := json.Marshal(skel)
	require.NoError(t, err)

	require.NoError(t, c.LPush(context.Background(), kv.IndexQueueKey("x"), payload))
	require.NoError(t, c.LPush(context.Background(), kv.IndexedTagsKey(), []byte("x")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	require.Eventually(t, func() bool {
		isMember, _ := c.SIsMember(context.Background(), kv.IndexedKey("danbooru"), []byte("100"))
		return isMember
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
