package memo

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

var (
	_ Store = (*RotatingStore)(nil)
	_ Store = (*ShardedStore)(nil)
)

// RotatingStore keeps two generations of entries. Writes go to the head
// generation; once it holds maxSize entries the older generation is dropped and
// the head becomes the older one. Reads consult both.
//
// At most 2*maxSize entries are retained, and an entry survives at least
// maxSize later insertions.
type RotatingStore struct {
	mu      sync.RWMutex
	gens    [2]map[string]any
	headIdx int
	maxSize int
}

func NewRotatingStore(maxSize uint32) *RotatingStore {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	return &RotatingStore{
		gens:    [2]map[string]any{{}, {}},
		maxSize: int(maxSize),
	}
}

func (s *RotatingStore) Get(token string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.gens[s.headIdx][token]; ok {
		return v, true, nil
	}
	v, ok := s.gens[1-s.headIdx][token]
	return v, ok, nil
}

func (s *RotatingStore) Set(token string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	head := s.gens[s.headIdx]
	if _, ok := head[token]; ok {
		head[token] = value
		return nil
	}
	if len(head) >= s.maxSize {
		s.headIdx = 1 - s.headIdx
		s.gens[s.headIdx] = make(map[string]any, s.maxSize)
		head = s.gens[s.headIdx]
	}
	delete(s.gens[1-s.headIdx], token)
	head[token] = value
	return nil
}

func (s *RotatingStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gens[0], token)
	delete(s.gens[1], token)
	return nil
}

// Len reports the number of retained entries across both generations.
func (s *RotatingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gens[0]) + len(s.gens[1])
}

// ShardedStore spreads tokens over independent RotatingStores by xxhash,
// so unrelated targets do not contend on one lock.
type ShardedStore struct {
	shards []*RotatingStore
}

func NewShardedStore(numShards int, maxSize uint32) *ShardedStore {
	if numShards <= 0 {
		numShards = 1
	}
	shards := make([]*RotatingStore, numShards)
	for i := range shards {
		shards[i] = NewRotatingStore(maxSize)
	}
	return &ShardedStore{shards: shards}
}

func (s *ShardedStore) shardOf(token string) *RotatingStore {
	if len(s.shards) == 1 {
		return s.shards[0]
	}
	return s.shards[xxhash.Sum64String(token)%uint64(len(s.shards))]
}

func (s *ShardedStore) Get(token string) (any, bool, error) {
	return s.shardOf(token).Get(token)
}

func (s *ShardedStore) Set(token string, value any) error {
	return s.shardOf(token).Set(token, value)
}

func (s *ShardedStore) Delete(token string) error {
	return s.shardOf(token).Delete(token)
}
