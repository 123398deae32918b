package memo

import "github.com/google/uuid"

// Target is a function registered for memoization.
// Its token is its identity; the wrapped func is never replaced.
type Target[T any] struct {
	token string
	fn    func() (T, error)
}

// NewTarget registers a fallible function under a fresh identity.
func NewTarget[T any](fn func() (T, error)) *Target[T] {
	return &Target[T]{
		token: uuid.NewString(),
		fn:    fn,
	}
}

// NewTargetFunc registers an infallible function under a fresh identity.
func NewTargetFunc[T any](fn func() T) *Target[T] {
	return NewTarget(func() (T, error) {
		return fn(), nil
	})
}

// Token returns the identity the Cache keys on.
func (t *Target[T]) Token() string {
	return t.token
}

// Call invokes the wrapped function directly, bypassing any cache.
func (t *Target[T]) Call() (T, error) {
	return t.fn()
}

func (t *Target[T]) String() string {
	return "target(" + t.token + ")"
}
