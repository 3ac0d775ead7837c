// Package admin implements the control-plane operations exposed by
// boorudex-admin: managing the monitored tag list, reporting per-tag
// ingestion progress, and exporting indexed entries (§6, grounded on
// the reference get_indexer_status.py / add_indexed_character.py
// scripts).
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/pkg/api"
)

// ErrTagNotFound means the upstream board has no tag matching a
// fragment passed to AddTag.
var ErrTagNotFound = errors.New("admin: no matching tag upstream")

// Controller implements the operator-facing control plane.
type Controller struct {
	kv       kv.Client
	store    index.Store
	upstream *upstream.Client
}

// New builds a Controller.
func New(c kv.Client, store index.Store, up *upstream.Client) *Controller {
	return &Controller{kv: c, store: store, upstream: up}
}

// ListTags returns the monitored tag list in insertion order.
func (c *Controller) ListTags(ctx context.Context) ([]string, error) {
	raw, err := c.kv.LRange(ctx, kv.IndexedTagsKey(), 0, -1)
	if err != nil {
		return nil, err
	}
	tags := make([]string, len(raw))
	for i, r := range raw {
		tags[i] = string(r)
	}
	return tags, nil
}

// AddTag resolves fragment to the board's canonical tag spelling via
// the tag search endpoint and adds it to the monitored list, unless it
// is already being watched.
func (c *Controller) AddTag(ctx context.Context, fragment string) (string, error) {
	matches, err := c.upstream.LookupTag(ctx, fragment)
	if err != nil {
		return "", fmt.Errorf("resolving tag %q: %w", fragment, err)
	}
	if len(matches) == 0 {
		return "", ErrTagNotFound
	}
	tag := matches[0]

	tags, err := c.ListTags(ctx)
	if err != nil {
		return "", err
	}
	for _, existing := range tags {
		if existing == tag {
			return tag, nil
		}
	}

	if err := c.kv.LPush(ctx, kv.IndexedTagsKey(), []byte(tag)); err != nil {
		return "", err
	}
	return tag, nil
}

// RemoveTag stops a tag from being monitored. Posts already indexed
// under it are left in place.
func (c *Controller) RemoveTag(ctx context.Context, tag string) error {
	return c.kv.LRem(ctx, kv.IndexedTagsKey(), 0, []byte(tag))
}

// Status reports queue depth and indexed count for every monitored tag.
func (c *Controller) Status(ctx context.Context) ([]api.TagStatus, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]api.TagStatus, 0, len(tags))
	for _, tag := range tags {
		depth, err := c.kv.LLen(ctx, kv.IndexQueueKey(tag))
		if err != nil {
			return nil, err
		}
		size, err := c.kv.SCard(ctx, kv.CharacterKey(tag))
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, api.TagStatus{Tag: tag, QueueDepth: depth, IndexedSize: size})
	}
	return statuses, nil
}

// ExportEntries loads every entry reachable from the monitored tags'
// character reverse index, deduplicating fingerprints shared by
// multiple tags.
func (c *Controller) ExportEntries(ctx context.Context) ([]api.Entry, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([][]byte, len(tags))
	for i, tag := range tags {
		keys[i] = kv.CharacterKey(tag)
	}

	members, err := c.kv.SUnion(ctx, keys...)
	if err != nil {
		return nil, err
	}

	entries := make([]api.Entry, 0, len(members))
	for _, m := range members {
		if len(m) != api.FingerprintBytes {
			continue
		}
		var fp api.Fingerprint
		copy(fp[:], m)

		entry, err := c.store.Load(ctx, fp)
		if errors.Is(err, api.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
