package frame

import (
	"fmt"
)

// ErrMap means the buffer memory could not be accessed.
type ErrMap struct {
	Flags MapFlags
	Err   error
}

func (e ErrMap) Error() string {
	return fmt.Sprintf("unable to map the buffer for %s: %v", e.Flags, e.Err)
}

func (e ErrMap) Unwrap() error {
	return e.Err
}
