package tracker

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/edgetracker/matrix"
)

// Backend is a single-object tracking algorithm.
type Backend interface {
	fmt.Stringer

	// Init seeds the model with the content of box in m.
	Init(ctx context.Context, m *matrix.BGR, box image.Rectangle) error

	// Update relocates the tracked object in m; ok is false if the
	// object was not found (the returned box is meaningless then).
	Update(ctx context.Context, m *matrix.BGR) (box image.Rectangle, ok bool)

	Close() error
}

// ErrBackendUnavailable means the requested tracker kind is not compiled in.
type ErrBackendUnavailable struct {
	Kind Kind
}

func (e ErrBackendUnavailable) Error() string {
	return fmt.Sprintf("tracker '%s' is not available in this build (build with tag 'with_cv' for OpenCV trackers)", e.Kind)
}
