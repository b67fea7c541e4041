package encoding

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every *DecodeError through errors.Is.
var ErrDecode = errors.New("decode error")

// DecodeError reports malformed external input: a missing 0x prefix, a non-hex character,
// an odd-length body or a payload of the wrong size.
type DecodeError struct {
	Input  string
	Reason string
	Err    error
}

func newDecodeError(input, reason string, err error) *DecodeError {
	return &DecodeError{Input: input, Reason: reason, Err: err}
}

// NewDecodeError is exported for codecs layered on top of this package (e.g. transaction RLP).
func NewDecodeError(input, reason string, err error) *DecodeError {
	return newDecodeError(input, reason, err)
}

func (e *DecodeError) Error() string {
	input := e.Input
	if len(input) > 72 {
		input = input[:72] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %q: %s: %v", input, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot decode %q: %s", input, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
