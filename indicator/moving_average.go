// moving_average.go defines the smoothing interface used for runtime measurements.

// Package indicator provides smoothing of noisy runtime measurements
// (like per-frame processing time).
package indicator

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type MovingAverage[T Number] interface {
	// Update adds a sample and returns the current smoothed value.
	Update(v T) T

	// Last returns the value returned by the latest Update.
	Last() T

	// Valid reports whether the window was filled at least once.
	Valid() bool
}
