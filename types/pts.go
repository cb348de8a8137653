// pts.go defines the timestamp and offset types carried by frame buffers.

package types

import (
	"math"
	"time"
)

// ClockTime is a timestamp or a duration in nanoseconds.
type ClockTime int64

const (
	// ClockTimeNone marks an unset timestamp or duration.
	ClockTimeNone = ClockTime(-1)

	// OffsetNone marks an unset byte offset.
	OffsetNone = uint64(math.MaxUint64)
)

func ClockTimeFromDuration(d time.Duration) ClockTime {
	return ClockTime(d.Nanoseconds())
}

func (t ClockTime) IsValid() bool {
	return t >= 0
}

func (t ClockTime) AsDuration() time.Duration {
	if !t.IsValid() {
		return 0
	}
	return time.Duration(t)
}

func (t ClockTime) String() string {
	if !t.IsValid() {
		return "none"
	}
	return time.Duration(t).String()
}
