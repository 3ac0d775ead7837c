package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/upstream"
)

func TestClient_GetPost_DecodesTagString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/42.json", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                   42,
			"rating":               "s",
			"tag_string":           "1girl solo smile",
			"tag_string_character": "hatsune_miku",
			"file_url":             "https://cdn.example/42.jpg",
		})
	}))
	defer srv.Close()

	c := upstream.New(srv.URL, "test-ua", nil)
	post, err := c.GetPost(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 42, post.ID)
	assert.ElementsMatch(t, []string{"1girl", "solo", "smile"}, post.Tags)
	assert.Equal(t, []string{"hatsune_miku"}, post.Characters)
	assert.True(t, post.HasTag("smile"))
	assert.True(t, post.HasTag("s"))
	assert.False(t, post.HasTag("nsfw"))
}

func TestPost_DownloadURL_PrefersFileURL(t *testing.T) {
	p := upstream.Post{FileURL: "a", LargeURL: "b", PreviewURL: "c"}
	u, err := p.DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "a", u)
}

func TestPost_DownloadURL_FallsBackToPreview(t *testing.T) {
	p := upstream.Post{PreviewURL: "c"}
	u, err := p.DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "c", u)
}

func TestPost_DownloadURL_NoneAvailable(t *testing.T) {
	p := upstream.Post{}
	_, err := p.DownloadURL()
	assert.Error(t, err)
}
