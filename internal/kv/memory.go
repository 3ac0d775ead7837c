package kv

import (
	"context"
	"sync"
)

// MemoryClient is an in-process Client implementation for tests, in the
// spirit of the teacher's index.MemoryStore: a second backend that
// exists purely so the rest of the system can be exercised without a
// live dependency.
type MemoryClient struct {
	mu      sync.Mutex
	strings map[string][]byte
	sets    map[string]map[string][]byte
	lists   map[string][][]byte
	closed  bool
}

// NewMemoryClient creates an empty in-memory KV store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		strings: make(map[string][]byte),
		sets:    make(map[string]map[string][]byte),
		lists:   make(map[string][][]byte),
	}
}

func (m *MemoryClient) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strings[string(key)]
	return v, ok, nil
}

func (m *MemoryClient) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]byte(nil), value...)
	m.strings[string(key)] = cp
	return nil
}

func (m *MemoryClient) Exists(_ context.Context, key []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.strings[string(key)]
	return ok, nil
}

func (m *MemoryClient) SAdd(_ context.Context, key []byte, members ...[]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saddLocked(key, members...)
	return nil
}

func (m *MemoryClient) saddLocked(key []byte, members ...[]byte) {
	set, ok := m.sets[string(key)]
	if !ok {
		set = make(map[string][]byte)
		m.sets[string(key)] = set
	}
	for _, mem := range members {
		set[string(mem)] = append([]byte(nil), mem...)
	}
}

func (m *MemoryClient) SRem(_ context.Context, key []byte, members ...[]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[string(key)]
	if !ok {
		return nil
	}
	for _, mem := range members {
		delete(set, string(mem))
	}
	return nil
}

func (m *MemoryClient) SMembers(_ context.Context, key []byte) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.membersLocked(key), nil
}

func (m *MemoryClient) membersLocked(key []byte) [][]byte {
	set, ok := m.sets[string(key)]
	if !ok {
		return nil
	}
	out := make([][]byte, 0, len(set))
	for _, v := range set {
		out = append(out, v)
	}
	return out
}

func (m *MemoryClient) SCard(_ context.Context, key []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sets[string(key)])), nil
}

func (m *MemoryClient) SUnion(_ context.Context, keys ...[]byte) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string][]byte)
	for _, k := range keys {
		for raw, v := range m.sets[string(k)] {
			seen[raw] = v
		}
	}
	out := make([][]byte, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out, nil
}

func (m *MemoryClient) SIsMember(_ context.Context, key, member []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[string(key)]
	if !ok {
		return false, nil
	}
	_, ok = set[string(member)]
	return ok, nil
}

func (m *MemoryClient) LPush(_ context.Context, key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]byte(nil), value...)
	m.lists[string(key)] = append([][]byte{cp}, m.lists[string(key)]...)
	return nil
}

func (m *MemoryClient) RPop(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[string(key)]
	if len(list) == 0 {
		return nil, false, nil
	}
	last := list[len(list)-1]
	m.lists[string(key)] = list[:len(list)-1]
	return last, true, nil
}

func (m *MemoryClient) LIndex(_ context.Context, key []byte, index int64) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[string(key)]
	idx := index
	if idx < 0 {
		idx = int64(len(list)) + idx
	}
	if idx < 0 || idx >= int64(len(list)) {
		return nil, false, nil
	}
	return list[idx], true, nil
}

func (m *MemoryClient) LRem(_ context.Context, key []byte, count int64, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[string(key)]
	out := make([][]byte, 0, len(list))
	removed := int64(0)
	for _, v := range list {
		if (count == 0 || removed < count) && string(v) == string(value) {
			removed++
			continue
		}
		out = append(out, v)
	}
	m.lists[string(key)] = out
	return nil
}

func (m *MemoryClient) LRange(_ context.Context, key []byte, start, stop int64) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[string(key)]
	n := int64(len(list))
	if n == 0 {
		return nil, nil
	}

	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil, nil
	}

	out := make([][]byte, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		out = append(out, list[i])
	}
	return out, nil
}

func (m *MemoryClient) LLen(_ context.Context, key []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.lists[string(key)])), nil
}

// memoryBatch buffers writes queued inside Pipeline until the callback
// returns without error, giving all-or-nothing semantics that mirror a
// Redis MULTI/EXEC without needing a second lock acquisition per write.
type memoryBatch struct {
	sets  [][2][]byte
	sadds []struct {
		key     []byte
		members [][]byte
	}
}

func (b *memoryBatch) Set(key, value []byte) {
	b.sets = append(b.sets, [2][]byte{key, value})
}

func (b *memoryBatch) SAdd(key []byte, members ...[]byte) {
	b.sadds = append(b.sadds, struct {
		key     []byte
		members [][]byte
	}{key, members})
}

func (m *MemoryClient) Pipeline(ctx context.Context, fn func(Batch) error) error {
	batch := &memoryBatch{}
	if err := fn(batch); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, kv := range batch.sets {
		cp := append([]byte(nil), kv[1]...)
		m.strings[string(kv[0])] = cp
	}
	for _, s := range batch.sadds {
		m.saddLocked(s.key, s.members...)
	}
	return nil
}

func (m *MemoryClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
