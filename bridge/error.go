package bridge

import (
	"fmt"
)

// ErrFormatNotNegotiated means a data buffer arrived before any valid frame format.
type ErrFormatNotNegotiated struct{}

func (ErrFormatNotNegotiated) Error() string {
	return "the frame format is not negotiated yet"
}

// ErrSizeMismatch means the buffer size disagrees with the negotiated geometry.
type ErrSizeMismatch struct {
	Expected int
	Actual   int
}

func (e ErrSizeMismatch) Error() string {
	return fmt.Sprintf("the buffer size is %d bytes, but the negotiated format requires %d bytes", e.Actual, e.Expected)
}
