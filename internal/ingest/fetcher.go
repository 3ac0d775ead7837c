package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/pkg/api"
	"github.com/lorehash/boorudex/pkg/fingerprint"
)

// Fetcher drains per-tag work queues strictly sequentially — one
// round-robin pass over every monitored tag, popping at most one
// skeleton per tag per pass — matching fetch_worker's single-coroutine
// loop. There is deliberately no fan-out here: the upstream board is
// one shared rate-limited resource.
type Fetcher struct {
	kv       kv.Client
	upstream *upstream.Client
	store    index.Store
	minDelay time.Duration
	logger   *logrus.Logger
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	MinDownloadDelay time.Duration // 0 defaults to api.DefaultMinDownloadDelay
	Logger           *logrus.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(c kv.Client, up *upstream.Client, store index.Store, cfg FetcherConfig) *Fetcher {
	if cfg.MinDownloadDelay <= 0 {
		cfg.MinDownloadDelay = api.DefaultMinDownloadDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Fetcher{
		kv:       c,
		upstream: up,
		store:    store,
		minDelay: cfg.MinDownloadDelay,
		logger:   cfg.Logger,
	}
}

// Run loops forever, visiting every monitored tag and popping one
// queued skeleton from each, until ctx is cancelled.
func (f *Fetcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tagsRaw, err := f.kv.LRange(ctx, kv.IndexedTagsKey(), 0, -1)
		if err != nil {
			return fmt.Errorf("list monitored tags: %w", err)
		}

		for _, raw := range tagsRaw {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := f.processOne(ctx, string(raw)); err != nil {
				f.logger.WithError(err).WithField("tag", string(raw)).Warn("fetch failed")
			}
		}
	}
}

// processOne pops and processes at most one skeleton from tag's queue,
// enforcing MinDownloadDelay between the start and end of the fetch
// the way fetch_worker paces its single loop.
func (f *Fetcher) processOne(ctx context.Context, tag string) error {
	raw, ok, err := f.kv.RPop(ctx, kv.IndexQueueKey(tag))
	if err != nil {
		return fmt.Errorf("pop queue for %q: %w", tag, err)
	}
	if !ok {
		return nil
	}

	started := time.Now()

	var skel api.Skeleton
	if err := json.Unmarshal(raw, &skel); err != nil {
		return fmt.Errorf("decode skeleton from %q queue: %w", tag, err)
	}

	if err := f.fetchAndIndex(ctx, skel); err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{"src": skel.Src, "src_id": skel.SrcID}).Warn("fetch/index failed, marking indexed to avoid poison-pill retry")
		if markErr := f.kv.SAdd(ctx, kv.IndexedKey(skel.Src), []byte(skel.SrcID)); markErr != nil {
			return markErr
		}
	}

	if err := f.kv.SRem(ctx, kv.AwaitingIndexKey(skel.Src), []byte(skel.SrcID)); err != nil {
		return fmt.Errorf("clear awaiting-index for %s#%s: %w", skel.Src, skel.SrcID, err)
	}

	if elapsed := time.Since(started); elapsed < f.minDelay {
		select {
		case <-time.After(f.minDelay - elapsed):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *Fetcher) fetchAndIndex(ctx context.Context, skel api.Skeleton) error {
	if skel.SrcURL == "" {
		return f.kv.SAdd(ctx, kv.IndexedKey(skel.Src), []byte(skel.SrcID))
	}

	img, err := f.upstream.FetchImage(ctx, skel.SrcURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", skel.SrcURL, err)
	}

	fp := fingerprint.Compute(img)
	entry := skel.Evolve(fp).ToEntry(fp)

	inserted, existingSrcID, err := f.store.Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert %s#%s: %w", skel.Src, skel.SrcID, err)
	}
	if !inserted {
		f.logger.WithFields(logrus.Fields{
			"src": skel.Src, "src_id": skel.SrcID, "existing_src_id": existingSrcID,
		}).Info("fingerprint already indexed")
	} else {
		f.logger.WithFields(logrus.Fields{"src": skel.Src, "src_id": skel.SrcID}).Info("indexed")
	}
	return nil
}
