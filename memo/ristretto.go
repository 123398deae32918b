package memo

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
)

var _ Store = (*RistrettoStore)(nil)

// RistrettoStore retains results under ristretto's admission and eviction
// policy. Every entry costs 1, so maxCost bounds the entry count.
type RistrettoStore struct {
	cache *ristretto.Cache[string, any]
}

func NewRistrettoStore(numCounters, maxCost int64) (*RistrettoStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        numCounters, // keys to track frequency of, ~10x expected entries.
		MaxCost:            maxCost,
		BufferItems:        64, // keys per Get buffer.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoStore{cache: cache}, nil
}

func (r *RistrettoStore) Get(token string) (any, bool, error) {
	v, ok := r.cache.Get(token)
	return v, ok, nil
}

// Set blocks until the write buffer is applied so the value is visible to the
// next Get.
func (r *RistrettoStore) Set(token string, value any) error {
	if !r.cache.Set(token, value, 1) {
		return ErrRejected
	}
	r.cache.Wait()
	return nil
}

func (r *RistrettoStore) Delete(token string) error {
	r.cache.Del(token)
	r.cache.Wait()
	return nil
}

func (r *RistrettoStore) Close() {
	r.cache.Close()
}
