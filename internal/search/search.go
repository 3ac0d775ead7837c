// Package search implements the approximate nearest-neighbour query
// path over the byte-position inverted index built by internal/index
// (§4.3): union the sixteen posting lists that match the query
// fingerprint's own byte values, score every candidate by Hamming
// distance, and keep what falls within the threshold.
package search

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/lorehash/boorudex/internal/index"
	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/pkg/api"
	"github.com/lorehash/boorudex/pkg/fingerprint"
)

// Searcher resolves query fingerprints to ranked hits.
type Searcher struct {
	kv    kv.Client
	store index.Store
}

// New builds a Searcher over a KV client (for the candidate union) and
// an index Store (for hydrating surviving candidates into Entries).
func New(c kv.Client, store index.Store) *Searcher {
	return &Searcher{kv: c, store: store}
}

// Search returns the indexed images strictly within threshold Hamming
// bits of q, sorted by ascending distance and then lexicographically by
// fingerprint for a stable order among equidistant hits. Only images
// that share at least one byte value at the same position with q are
// candidates; an image that differs from q in all 16 byte positions is
// never returned, whatever the threshold. threshold has no upper bound;
// only a negative threshold is rejected.
func (s *Searcher) Search(ctx context.Context, q api.Fingerprint, threshold int) ([]api.Hit, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: %d", api.ErrInvalidThreshold, threshold)
	}

	keys := make([][]byte, api.FingerprintBytes)
	for i := 0; i < api.FingerprintBytes; i++ {
		keys[i] = kv.HashIdxKey(i, q[i])
	}

	candidates, err := s.kv.SUnion(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("union candidate posting lists: %w", err)
	}

	hits := make([]api.Hit, 0, len(candidates))
	for _, c := range candidates {
		if len(c) != api.FingerprintBytes {
			continue
		}
		var candidate api.Fingerprint
		copy(candidate[:], c)

		dist := fingerprint.Hamming(q, candidate)
		if dist >= threshold {
			continue
		}

		entry, err := s.store.Load(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("load entry for candidate %s: %w", candidate, err)
		}

		hits = append(hits, api.Hit{Entry: entry, Distance: dist})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return bytes.Compare(hits[i].Entry.ImHash[:], hits[j].Entry.ImHash[:]) < 0
	})

	return hits, nil
}
