// Package memo memoizes zero-argument functions by identity.
//
// A function is registered once with NewTarget, which mints a stable token for
// it. The Cache keys every stored result on that token, never on what the
// function does, so two Targets wrapping the same func value are two separate
// entries.
//
// Retention is owned by the Store behind the Cache:
//   - RotatingStore: bounded two-generation map
//   - ShardedStore: RotatingStores selected by token hash
//   - RistrettoStore: admission-controlled ristretto cache
//   - MemDBStore: go-memdb table indexed on the token
//
// Example:
//
//	target := memo.NewTargetFunc(expensive)
//	cache := memo.NewCache(memo.NewRotatingStore(64))
//	v, err := memo.Fetch(cache, target) // invokes expensive
//	v, err = memo.Lookup(cache, target) // served from the store
package memo
