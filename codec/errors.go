package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a value outside the bit width a transform requires.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedPayload reports an event payload whose length disagrees with its count.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrTruncatedBlob reports a felt blob that is not a whole number of 32-byte slots.
	ErrTruncatedBlob = errors.New("truncated blob")
	// ErrFeltOverflow reports a scalar that does not fit a single field element.
	ErrFeltOverflow = errors.New("felt overflow")
)

// Error carries the failing transform and the offending value alongside one of the
// sentinel errors above, so errors.Is keeps working for callers.
type Error struct {
	Op    string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Value, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, value string, err error) *Error {
	return &Error{Op: op, Value: value, Err: err}
}
