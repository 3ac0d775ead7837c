// Package ingest implements the two-stage tag-driven ingestion
// pipeline from §5: a Discoverer that enumerates upstream posts for
// each monitored tag into per-tag work queues, and a Fetcher that
// drains those queues, downloads images, and commits fingerprints into
// the index. Grounded on the reference indexer's refresh_one_tag /
// refresh_character_worker and fetch_worker loops.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/internal/upstream"
	"github.com/lorehash/boorudex/pkg/api"
)

// Discoverer enumerates new posts for every monitored tag and enqueues
// them as skeletons awaiting fingerprinting.
type Discoverer struct {
	kv          kv.Client
	upstream    *upstream.Client
	excludeTags []string
	concurrency int
	interval    time.Duration
	logger      *logrus.Logger
}

// DiscovererConfig configures a Discoverer.
type DiscovererConfig struct {
	ExcludeTags []string
	Concurrency int           // workers fanned out per refresh round
	Interval    time.Duration // 0 defaults to api.DefaultRefreshInterval
	Logger      *logrus.Logger
}

// NewDiscoverer builds a Discoverer.
func NewDiscoverer(c kv.Client, up *upstream.Client, cfg DiscovererConfig) *Discoverer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Interval <= 0 {
		cfg.Interval = api.DefaultRefreshInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Discoverer{
		kv:          c,
		upstream:    up,
		excludeTags: cfg.ExcludeTags,
		concurrency: cfg.Concurrency,
		interval:    cfg.Interval,
		logger:      cfg.Logger,
	}
}

// Run refreshes every monitored tag once, then sleeps for the
// configured interval, repeating until ctx is cancelled.
func (d *Discoverer) Run(ctx context.Context) error {
	for {
		if err := d.refreshAll(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.interval):
		}
	}
}

// refreshAll hands the monitored tags to a pool of d.concurrency
// workers, each refreshing one tag at a time, and waits for all of them.
func (d *Discoverer) refreshAll(ctx context.Context) error {
	tagsRaw, err := d.kv.LRange(ctx, kv.IndexedTagsKey(), 0, -1)
	if err != nil {
		return fmt.Errorf("list monitored tags: %w", err)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < d.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tag := range jobs {
				if err := d.refreshTag(ctx, tag); err != nil {
					d.logger.WithError(err).WithField("tag", tag).Warn("tag refresh failed")
				}
			}
		}()
	}

	for _, raw := range tagsRaw {
		select {
		case jobs <- string(raw):
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

// refreshTag discovers posts for tag newer than nothing already queued
// or indexed, resuming from the head of its queue (refresh_one_tag).
func (d *Discoverer) refreshTag(ctx context.Context, tag string) error {
	startID, err := d.resumePoint(ctx, tag)
	if err != nil {
		return fmt.Errorf("resolve resume point for %q: %w", tag, err)
	}

	d.logger.WithFields(logrus.Fields{"tag": tag, "start_id": startID}).Info("refreshing tag")

	posts, errs := d.upstream.Search(ctx, upstream.SearchOptions{
		Tags:        []string{tag},
		ExcludeTags: d.excludeTags,
		StartID:     startID,
	})

	enqueued := 0
	for post := range posts {
		enq, err := d.maybeEnqueue(ctx, tag, post)
		if err != nil {
			return fmt.Errorf("enqueue post %d for %q: %w", post.ID, tag, err)
		}
		if enq {
			enqueued++
		}
	}

	if err := <-errs; err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{"tag": tag, "enqueued": enqueued}).Info("tag refresh complete")
	return nil
}

func (d *Discoverer) resumePoint(ctx context.Context, tag string) (*int, error) {
	head, ok, err := d.kv.LIndex(ctx, kv.IndexQueueKey(tag), 0)
	if err != nil || !ok {
		return nil, err
	}

	var skel api.Skeleton
	if err := json.Unmarshal(head, &skel); err != nil {
		return nil, fmt.Errorf("decode queue head: %w", err)
	}

	id, err := parseSrcID(skel.SrcID)
	if err != nil {
		return nil, nil
	}
	return &id, nil
}

const defaultSource = "danbooru"

// maybeEnqueue checks both the indexed and awaiting-index sets before
// queuing a post, matching refresh_one_tag's double sismember guard.
func (d *Discoverer) maybeEnqueue(ctx context.Context, tag string, post upstream.Post) (bool, error) {
	srcID := fmt.Sprintf("%d", post.ID)

	indexed, err := d.kv.SIsMember(ctx, kv.IndexedKey(defaultSource), []byte(srcID))
	if err != nil {
		return false, err
	}
	awaiting, err := d.kv.SIsMember(ctx, kv.AwaitingIndexKey(defaultSource), []byte(srcID))
	if err != nil {
		return false, err
	}
	if indexed || awaiting {
		return false, nil
	}

	downloadURL, err := post.DownloadURL()
	if err != nil {
		downloadURL = ""
	}

	skel := api.Skeleton{
		Src:        defaultSource,
		SrcID:      srcID,
		SrcURL:     downloadURL,
		Characters: post.Characters,
		Rating:     api.Rating(post.Rating),
	}
	payload, err := json.Marshal(skel)
	if err != nil {
		return false, fmt.Errorf("marshal skeleton: %w", err)
	}

	if err := d.kv.LPush(ctx, kv.IndexQueueKey(tag), payload); err != nil {
		return false, err
	}
	if err := d.kv.SAdd(ctx, kv.AwaitingIndexKey(defaultSource), []byte(srcID)); err != nil {
		return false, err
	}
	return true, nil
}

func parseSrcID(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
