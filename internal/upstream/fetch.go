package upstream

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/lorehash/boorudex/pkg/api"
	"github.com/lorehash/boorudex/pkg/imaging"
)

func newGetRequest(ctx context.Context, rawURL, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}

// FetchImage downloads and decodes a post's image, reading in
// api.DownloadChunkBytes increments the way the reference
// fetch_bytesio does.
func (c *Client) FetchImage(ctx context.Context, downloadURL string) (image.Image, error) {
	req, err := newGetRequest(ctx, downloadURL, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	chunk := make([]byte, api.DownloadChunkBytes)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("download image: %w", readErr)
		}
		if err := imaging.ValidateSize(buf.Len()); err != nil {
			return nil, fmt.Errorf("download image: %w", err)
		}
	}

	dec := imaging.NewDecoder()
	img, _, err := dec.DecodeFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrImageDecodeFailed, err)
	}
	return img, nil
}
