// Package upstream talks to the booru-style image board that posts
// are discovered from and downloaded from. Pagination, retry, and
// tag-limit behavior are grounded on the reference indexer's
// search_api/construct_search_endpoint (§5.1).
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/pkg/api"
)

// Post is a single board post as returned by the upstream JSON API.
type Post struct {
	ID         int      `json:"id"`
	Rating     string   `json:"rating"`
	Tags       []string `json:"tag_string_tags"`
	Characters []string `json:"tag_string_characters"`
	FileURL    string   `json:"file_url"`
	LargeURL   string   `json:"large_file_url"`
	PreviewURL string   `json:"preview_file_url"`
}

// rawPost mirrors the board's actual JSON shape: tags arrive as
// space-separated strings, not arrays.
type rawPost struct {
	ID                  int    `json:"id"`
	Rating              string `json:"rating"`
	TagString           string `json:"tag_string"`
	TagStringCharacters string `json:"tag_string_character"`
	FileURL             string `json:"file_url"`
	LargeFileURL        string `json:"large_file_url"`
	PreviewFileURL      string `json:"preview_file_url"`
}

func (r rawPost) toPost() Post {
	p := Post{
		ID:         r.ID,
		Rating:     r.Rating,
		FileURL:    r.FileURL,
		LargeURL:   r.LargeFileURL,
		PreviewURL: r.PreviewFileURL,
	}
	if r.TagString != "" {
		p.Tags = strings.Fields(r.TagString)
	}
	if r.TagStringCharacters != "" {
		p.Characters = strings.Fields(r.TagStringCharacters)
	}
	return p
}

// DownloadURL picks the best available image URL, in the order the
// reference client prefers them.
func (p Post) DownloadURL() (string, error) {
	switch {
	case p.FileURL != "":
		return p.FileURL, nil
	case p.LargeURL != "":
		return p.LargeURL, nil
	case p.PreviewURL != "":
		return p.PreviewURL, nil
	default:
		return "", api.ErrNoDownloadURL
	}
}

// HasTag reports whether tag matches the post's rating or one of its
// tags/characters.
func (p Post) HasTag(tag string) bool {
	if tag == p.Rating {
		return true
	}
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	for _, c := range p.Characters {
		if c == tag {
			return true
		}
	}
	return false
}

// Client is a minimal HTTP client for the upstream board.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// New builds an upstream Client. baseURL has no trailing slash.
func New(baseURL, userAgent string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, postID int) (Post, error) {
	resp, err := c.do(ctx, fmt.Sprintf("/posts/%d.json", postID))
	if err != nil {
		return Post{}, fmt.Errorf("fetch post %d: %w", postID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Post{}, fmt.Errorf("fetch post %d: status %d", postID, resp.StatusCode)
	}

	var raw rawPost
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Post{}, fmt.Errorf("decode post %d: %w", postID, err)
	}
	return raw.toPost(), nil
}

// LookupTag resolves a user-supplied fragment to the board's canonical
// tag names via the tag search endpoint.
func (c *Client) LookupTag(ctx context.Context, fragment string) ([]string, error) {
	q := url.Values{}
	q.Set("search[name_matches]", "*"+fragment+"*")

	resp, err := c.do(ctx, "/tags.json?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("lookup tag %q: %w", fragment, err)
	}
	defer resp.Body.Close()

	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tag lookup for %q: %w", fragment, err)
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}

// constructSearchEndpoint builds one page of the paginated search
// endpoint. When startID is set it is folded into the tag list as an
// "id:<N" filter, bumping out a second real tag per the upstream's
// two-tag search limit (danbooru.py's construct_search_endpoint).
func constructSearchEndpoint(page int, tags []string, startID *int) string {
	path := fmt.Sprintf("/posts.json?page=%d&limit=%d", page, api.PostsPerPage)

	effective := append([]string(nil), tags...)
	if startID != nil {
		if len(effective) >= api.MaxSearchTags {
			effective = effective[:1]
		}
		effective = append(effective, "id:<"+strconv.Itoa(*startID))
	}

	if len(effective) > 0 {
		lowered := make([]string, len(effective))
		for i, t := range effective {
			lowered[i] = strings.ToLower(strings.TrimSpace(t))
		}
		// TODO: percent-encode ":" and "<" in the id:<N filter instead of
		// concatenating it raw; danbooru.py did the same unescaped join.
		path += "&tags=" + strings.Join(lowered, "+")
	}

	return path
}
