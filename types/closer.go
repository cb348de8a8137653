// closer.go defines the Closer interface.

package types

import (
	"context"
)

// Closer is implemented by everything that holds native (non-GC) resources,
// e.g. OpenCV matrices or trackers.
type Closer interface {
	Close(context.Context) error
}
