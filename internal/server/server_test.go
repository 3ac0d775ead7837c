package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/search"
	"github.com/lorehash/boorudex/internal/server"
	"github.com/lorehash/boorudex/pkg/api"
)

func TestServer_HandleHealth(t *testing.T) {
	c := kv.NewMemoryClient()
	store := index.NewKVStore(c)
	s := server.New(search.New(c, store), ":0", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HandleSearch_ReturnsHits(t *testing.T) {
	c := kv.NewMemoryClient()
	store := index.NewKVStore(c)
	fp := api.Fingerprint{0x01, 0x02}
	_, _, err := store.Insert(context.Background(), api.Entry{ImHash: fp, Src: "danbooru", SrcID: "1", SrcURL: "u", Rating: api.RatingSafe})
	require.NoError(t, err)

	s := server.New(search.New(c, store), ":0", nil)

	body, _ := json.Marshal(map[string]any{"fingerprint": fp.String()})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp struct {
		Hits []api.Hit `json:"hits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "1", resp.Hits[0].Entry.SrcID)
}

func TestServer_HandleSearch_RejectsBadFingerprint(t *testing.T) {
	c := kv.NewMemoryClient()
	store := index.NewKVStore(c)
	s := server.New(search.New(c, store), ":0", nil)

	body, _ := json.Marshal(map[string]any{"fingerprint": "not-hex"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
