// Package index implements the at-most-once insertion protocol and
// byte-position inverted index described in §4.2.
package index

import (
	"context"

	"github.com/lorehash/boorudex/internal/kv"
	"github.com/lorehash/boorudex/pkg/api"
)

// Store is the IndexStore interface from §4.2.
type Store interface {
	Exists(ctx context.Context, h api.Fingerprint) (bool, error)
	Load(ctx context.Context, h api.Fingerprint) (api.Entry, error)
	Insert(ctx context.Context, e api.Entry) (inserted bool, existingSrcID string, err error)
}

// KVStore is the direct KV-backed implementation of Store.
type KVStore struct {
	kv kv.Client
}

// NewKVStore wraps a kv.Client as an IndexStore.
func NewKVStore(c kv.Client) *KVStore {
	return &KVStore{kv: c}
}

// Exists implements §4.2: true iff hash:{imhash}:src is present.
func (s *KVStore) Exists(ctx context.Context, h api.Fingerprint) (bool, error) {
	return s.kv.Exists(ctx, kv.HashSrcKey(h))
}

// Load implements §4.2: reads src, src_id, src_url, rating, and the
// characters set, failing with api.ErrNotFound when the primary key is
// absent.
func (s *KVStore) Load(ctx context.Context, h api.Fingerprint) (api.Entry, error) {
	src, ok, err := s.kv.Get(ctx, kv.HashSrcKey(h))
	if err != nil {
		return api.Entry{}, err
	}
	if !ok {
		return api.Entry{}, api.ErrNotFound
	}

	srcID, _, err := s.kv.Get(ctx, kv.HashSrcIDKey(h))
	if err != nil {
		return api.Entry{}, err
	}
	srcURL, _, err := s.kv.Get(ctx, kv.HashSrcURLKey(h))
	if err != nil {
		return api.Entry{}, err
	}
	rating, _, err := s.kv.Get(ctx, kv.HashRatingKey(h))
	if err != nil {
		return api.Entry{}, err
	}
	chars, err := s.kv.SMembers(ctx, kv.HashCharactersKey(h))
	if err != nil {
		return api.Entry{}, err
	}

	characters := make([]string, len(chars))
	for i, c := range chars {
		characters[i] = string(c)
	}

	return api.Entry{
		ImHash:     h,
		Src:        string(src),
		SrcID:      string(srcID),
		SrcURL:     string(srcURL),
		Characters: characters,
		Rating:     api.Rating(rating),
	}, nil
}

// Insert implements §4.2's at-most-once insertion protocol:
//  1. Unconditionally add src_id to indexed:{src}.
//  2. Read hash:{imhash}:src_id; if present, return (false, existing).
//  3. Within one atomic batch: SET the four scalar keys (src, src_id,
//     src_url, rating), SADD imhash
//     into the 16 byte-position sets, and (if non-empty) SADD characters.
//  4. Return (true, src_id).
//
// The read-then-atomic-write is deliberately not linearizable against
// concurrent inserters — the outer pipeline guarantees only one fetcher
// ever processes a given skeleton, so this is acceptable (§4.2).
func (s *KVStore) Insert(ctx context.Context, e api.Entry) (bool, string, error) {
	if err := s.kv.SAdd(ctx, kv.IndexedKey(e.Src), []byte(e.SrcID)); err != nil {
		return false, "", err
	}

	existing, ok, err := s.kv.Get(ctx, kv.HashSrcIDKey(e.ImHash))
	if err != nil {
		return false, "", err
	}
	if ok {
		return false, string(existing), nil
	}

	err = s.kv.Pipeline(ctx, func(b kv.Batch) error {
		b.Set(kv.HashSrcKey(e.ImHash), []byte(e.Src))
		b.Set(kv.HashSrcIDKey(e.ImHash), []byte(e.SrcID))
		b.Set(kv.HashSrcURLKey(e.ImHash), []byte(e.SrcURL))
		b.Set(kv.HashRatingKey(e.ImHash), []byte(e.Rating))

		for i := 0; i < api.FingerprintBytes; i++ {
			b.SAdd(kv.HashIdxKey(i, e.ImHash[i]), e.ImHash[:])
		}

		if len(e.Characters) > 0 {
			charBytes := make([][]byte, len(e.Characters))
			for i, c := range e.Characters {
				charBytes[i] = []byte(c)
			}
			b.SAdd(kv.HashCharactersKey(e.ImHash), charBytes...)

			for _, c := range e.Characters {
				b.SAdd(kv.CharacterKey(c), e.ImHash[:])
			}
		}

		return nil
	})
	if err != nil {
		return false, "", err
	}

	return true, e.SrcID, nil
}
