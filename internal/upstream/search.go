package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lorehash/boorudex/pkg/api"
)

// SearchOptions configures a paginated tag search.
type SearchOptions struct {
	Tags         []string // at most api.MaxSearchTags
	ExcludeTags  []string
	Rating       string // empty means any rating
	StartID      *int   // resume point: only posts with id < StartID
}

// Search streams matching posts onto the returned channel, applying
// ExcludeTags/Rating client-side the way the reference search()
// wrapper filters search_api()'s raw stream. The channel is closed
// when the search is exhausted, the page cap is hit, or ctx is
// cancelled. A send on the returned error channel, if any, is the last
// thing that happens before both channels close.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (<-chan Post, <-chan error) {
	posts := make(chan Post)
	errs := make(chan error, 1)

	go func() {
		defer close(posts)
		defer close(errs)

		if len(opts.Tags) > api.MaxSearchTags {
			errs <- fmt.Errorf("search tags %v: %w", opts.Tags, api.ErrTooManyTags)
			return
		}

		searchTags := opts.Tags
		if len(searchTags) > 2 {
			searchTags = searchTags[:2]
		}

		page := 0
		tries := 0
		startID := opts.StartID

		for page < api.MaxSearchPages {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case <-time.After(api.PageFetchPacing):
			}

			if tries >= api.MaxPageRetries {
				errs <- fmt.Errorf("search tags %v: %w", opts.Tags, api.ErrUpstreamExhausted)
				return
			}

			resp, err := c.do(ctx, constructSearchEndpoint(page, searchTags, startID))
			if err != nil {
				tries++
				continue
			}

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				resp.Body.Close()
				tries++
				continue
			}

			var raws []rawPost
			decodeErr := json.NewDecoder(resp.Body).Decode(&raws)
			resp.Body.Close()
			if decodeErr != nil {
				tries++
				continue
			}

			if len(raws) == 0 {
				return
			}

			page++
			tries = 0

			lastID := raws[0].ID
			for _, r := range raws {
				if r.ID < lastID {
					lastID = r.ID
				}
			}
			if startID != nil && lastID > *startID {
				continue
			}

			for _, r := range raws {
				post := r.toPost()
				if !matches(post, opts) {
					continue
				}
				select {
				case posts <- post:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
	}()

	return posts, errs
}

func matches(p Post, opts SearchOptions) bool {
	for _, tag := range opts.Tags {
		if !p.HasTag(tag) {
			return false
		}
	}
	for _, tag := range opts.ExcludeTags {
		if p.HasTag(tag) {
			return false
		}
	}
	if opts.Rating != "" && p.Rating != opts.Rating {
		return false
	}
	return true
}
