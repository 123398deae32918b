package helper

import (
	"errors"
	"fmt"
)

// ErrUnexpectedType is returned when a looked-up value is not of the requested type.
var ErrUnexpectedType = errors.New("unexpected type")

// GetTypedValueOf runs a lookup and asserts a found value to T.
// A miss yields ok == false and no error; a found nil yields the zero T; a
// found value of another type yields an error wrapping ErrUnexpectedType.
func GetTypedValueOf[T any](getFn func() (any, bool, error)) (res T, ok bool, err error) {
	raw, ok, err := getFn()
	if err != nil || !ok {
		return res, false, err
	}
	if raw == nil {
		// the nil value of an interface-typed T is stored untyped
		return res, true, nil
	}
	res, ok = raw.(T)
	if !ok {
		return res, false, fmt.Errorf("%w: want %T, got %T", ErrUnexpectedType, res, raw)
	}
	return res, true, nil
}
