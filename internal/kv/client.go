// Package kv defines the minimal KV store surface the index and
// ingestion pipeline depend on (§6: GET, SET, EXISTS, SADD, SREM,
// SMEMBERS, SCARD, SUNION, SISMEMBER, LRANGE, LPUSH, RPOP, LINDEX, LREM,
// LLEN, and an atomic-execute primitive). The store itself — Redis in
// production — is an external collaborator; this package only pins the
// contract and ships two implementations: a real Redis client and an
// in-process fake for tests.
package kv

import "context"

// Client is the command surface the rest of boorudex is built against.
// Keys and values are 8-bit clean: fingerprint bytes are embedded
// directly into keys, so every method takes []byte rather than string.
type Client interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Set(ctx context.Context, key, value []byte) error
	Exists(ctx context.Context, key []byte) (bool, error)

	SAdd(ctx context.Context, key []byte, members ...[]byte) error
	SRem(ctx context.Context, key []byte, members ...[]byte) error
	SMembers(ctx context.Context, key []byte) ([][]byte, error)
	SCard(ctx context.Context, key []byte) (int64, error)
	SUnion(ctx context.Context, keys ...[]byte) ([][]byte, error)
	SIsMember(ctx context.Context, key, member []byte) (bool, error)

	LPush(ctx context.Context, key []byte, value []byte) error
	RPop(ctx context.Context, key []byte) ([]byte, bool, error)
	LIndex(ctx context.Context, key []byte, index int64) ([]byte, bool, error)
	LRem(ctx context.Context, key []byte, count int64, value []byte) error
	LRange(ctx context.Context, key []byte, start, stop int64) ([][]byte, error)
	LLen(ctx context.Context, key []byte) (int64, error)

	// Pipeline runs fn against a batch that commits atomically (a single
	// Redis MULTI/EXEC), as required by §4.2's insert step 3.
	Pipeline(ctx context.Context, fn func(Batch) error) error

	Close() error
}

// Batch is the subset of write commands usable inside an atomic
// Pipeline call. Reads are intentionally excluded: the teacher's
// `IndexStore.insert` read-then-write is deliberately non-linearizable
// (§4.2) and the batch only needs to express the unconditional write set.
type Batch interface {
	Set(key, value []byte)
	SAdd(key []byte, members ...[]byte)
}
