package probability

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange       = errors.New("probability out of range")
	ErrInvertedBounds   = errors.New("probability bounds inverted")
	ErrEnvelopeMismatch = errors.New("p-box envelopes mismatched")
)

func rangeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
