package index

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/pkg/api"
)

// CachedStore decorates a Store with a read-through LRU cache keyed by
// fingerprint, so repeated Load calls for hot images (common during a
// burst of near-duplicate search hits) skip the KV round-trip. Insert
// invalidates the corresponding entry rather than trying to keep it
// fresh — the cache only needs to be correct, not hot, after a write.
type CachedStore struct {
	inner  Store
	cache  *lru.Cache[api.Fingerprint, api.Entry]
	logger *logrus.Logger
}

// NewCachedStore wraps inner with an LRU of the given size. A size of 0
// falls back to api.DefaultCacheSize.
func NewCachedStore(inner Store, size int, logger *logrus.Logger) (*CachedStore, error) {
	if size <= 0 {
		size = api.DefaultCacheSize
	}
	cache, err := lru.New[api.Fingerprint, api.Entry](size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CachedStore{inner: inner, cache: cache, logger: logger}, nil
}

func (c *CachedStore) Exists(ctx context.Context, h api.Fingerprint) (bool, error) {
	if _, ok := c.cache.Get(h); ok {
		return true, nil
	}
	return c.inner.Exists(ctx, h)
}

func (c *CachedStore) Load(ctx context.Context, h api.Fingerprint) (api.Entry, error) {
	if e, ok := c.cache.Get(h); ok {
		c.logger.WithField("imhash", h.String()).Debug("index cache hit")
		return e, nil
	}

	e, err := c.inner.Load(ctx, h)
	if err != nil {
		return api.Entry{}, err
	}
	c.cache.Add(h, e)
	return e, nil
}

func (c *CachedStore) Insert(ctx context.Context, e api.Entry) (bool, string, error) {
	inserted, existingSrcID, err := c.inner.Insert(ctx, e)
	if err != nil {
		return false, "", err
	}
	c.cache.Remove(e.ImHash)
	return inserted, existingSrcID, nil
}
