package kv

import "fmt"

// The key schema from §4.2. {H} is the 16 raw bytes of a fingerprint
// embedded directly in the key, never hex-encoded or otherwise made
// UTF-8-safe — the client must accept binary keys as-is.

func hashKey(h [16]byte, suffix string) []byte {
	key := make([]byte, 0, len("hash:")+16+len(suffix))
	key = append(key, "hash:"...)
	key = append(key, h[:]...)
	key = append(key, suffix...)
	return key
}

func HashSrcKey(h [16]byte) []byte        { return hashKey(h, ":src") }
func HashSrcIDKey(h [16]byte) []byte      { return hashKey(h, ":src_id") }
func HashSrcURLKey(h [16]byte) []byte     { return hashKey(h, ":src_url") }
func HashRatingKey(h [16]byte) []byte     { return hashKey(h, ":rating") }
func HashCharactersKey(h [16]byte) []byte { return hashKey(h, ":characters") }

// HashIdxKey builds the posting-list key hash_idx:{i:02d}:{b:02x} for
// byte position i holding value b.
func HashIdxKey(i int, b byte) []byte {
	return []byte(fmt.Sprintf("hash_idx:%02d:%02x", i, b))
}

// CharacterKey builds the reverse-lookup set key for a character tag.
func CharacterKey(character string) []byte {
	return []byte("character:" + character)
}

// IndexedKey builds the per-source set of fully processed post ids.
func IndexedKey(src string) []byte {
	return []byte("indexed:" + src)
}

// AwaitingIndexKey builds the per-source set of enqueued-but-unfinalized ids.
func AwaitingIndexKey(src string) []byte {
	return []byte("awaiting_index:" + src)
}

// IndexedTagsKey is the control-plane list of monitored tags.
func IndexedTagsKey() []byte { return []byte("indexed_tags") }

// IndexQueueKey builds the per-tag skeleton work queue.
func IndexQueueKey(tag string) []byte {
	return []byte("index_queue:" + tag)
}
