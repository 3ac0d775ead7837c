package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/upstream"
)

func TestClient_Search_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 10, "rating": "s", "tag_string": "hatsune_miku", "tag_string_character": "hatsune_miku", "file_url": "u10"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL, "test-ua", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	posts, errs := c.Search(ctx, upstream.SearchOptions{Tags: []string{"hatsune_miku"}})

	var got []upstream.Post
	for p := range posts {
		got = append(got, p)
	}
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].ID)
	assert.Equal(t, 2, calls)
}

func TestClient_Search_FiltersExcludedTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "rating": "e", "tag_string": "loli hatsune_miku", "file_url": "u1"},
				{"id": 2, "rating": "s", "tag_string": "hatsune_miku", "file_url": "u2"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL, "test-ua", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	posts, errs := c.Search(ctx, upstream.SearchOptions{
		Tags:        []string{"hatsune_miku"},
		ExcludeTags: []string{"loli"},
	})

	var got []upstream.Post
	for p := range posts {
		got = append(got, p)
	}
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestClient_Search_TooManyTagsErrors(t *testing.T) {
	c := upstream.New("http://unused.invalid", "test-ua", nil)
	posts, errs := c.Search(context.Background(), upstream.SearchOptions{Tags: []string{"a", "b", "c"}})

	for range posts {
		t.Fatal("expected no posts when tag limit is exceeded")
	}
	err := <-errs
	assert.Error(t, err)
}
