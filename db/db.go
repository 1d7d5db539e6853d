package db

import (
	"errors"
	"io"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the storage the relay journal needs.
type KeyValueStore interface {
	io.Closer

	// Has reports whether key is present.
	Has(key []byte) (bool, error)
	// Get calls cb with the value of key. The value is only valid for the duration of cb.
	// It returns ErrKeyNotFound if key is absent.
	Get(key []byte, cb func(value []byte) error) error
	// Put writes and syncs key.
	Put(key, value []byte) error
	// Delete removes key, it is not an error if key is absent.
	Delete(key []byte) error
	// Iterate calls fn for every key with the given prefix in ascending order until fn returns
	// false or an error.
	Iterate(prefix []byte, fn func(key, value []byte) (bool, error)) error
}

// CloseAndWrapOnError runs closeFn and joins its error into *err.
func CloseAndWrapOnError(closeFn func() error, err *error) {
	if closeErr := closeFn(); closeErr != nil {
		*err = errors.Join(*err, closeErr)
	}
}

// PrefixUpperBound returns the smallest key greater than every key with the given prefix,
// nil when no such key exists.
func PrefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}
