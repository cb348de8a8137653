package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/edgetracker/logger"
)

// SetFinalizerClose makes sure the native resources behind closer are
// released even if the owner forgot to call Close.
func SetFinalizerClose[T interface{ Close() error }](
	ctx context.Context,
	closer T,
) {
	runtime.SetFinalizer(closer, func(closer T) {
		logger.Debugf(ctx, "closing %T from a finalizer", closer)
		if err := closer.Close(); err != nil {
			logger.Errorf(ctx, "unable to close %T: %v", closer, err)
		}
	})
}
