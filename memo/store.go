package memo

import "errors"

// Store holds cached results keyed by target token.
// A miss is reported as ok == false, not as an error.
type Store interface {
	Get(token string) (value any, ok bool, err error)
	Set(token string, value any) error
	Delete(token string) error
}

var (
	// ErrNotCached is returned by Lookup when the store holds nothing for the target.
	ErrNotCached = errors.New("memo: no cached result for target")

	// ErrTypeMismatch is returned when a stored value is not of the target's result type.
	ErrTypeMismatch = errors.New("memo: cached result has unexpected type")

	// ErrRejected is returned when a store declines to keep a value.
	ErrRejected = errors.New("memo: store rejected value")
)
