package format

import (
	"fmt"
)

// ErrFormatMissing means a format descriptor lacked a required field
// (or the field was not parsable). The previously negotiated format is kept.
type ErrFormatMissing struct {
	Field string
	Value any
}

func (e ErrFormatMissing) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("the format descriptor has no field '%s'", e.Field)
	}
	return fmt.Sprintf("the format descriptor has an invalid value of field '%s': %#+v", e.Field, e.Value)
}

// ErrUnsupportedLayout means the descriptor announced a pixel layout the
// filter cannot interpret. The previously negotiated format is kept.
type ErrUnsupportedLayout struct {
	Layout string
	Err    error
}

func (e ErrUnsupportedLayout) Error() string {
	return fmt.Sprintf("unsupported pixel layout '%s': %v", e.Layout, e.Err)
}

func (e ErrUnsupportedLayout) Unwrap() error {
	return e.Err
}
