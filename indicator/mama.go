// mama.go implements the MESA Adaptive Moving Average (MAMA) over a sliding window.

package indicator

import (
	"context"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
	"github.com/xaionaro-go/xsync"
)

// MAMA smooths samples with the MESA Adaptive Moving Average computed over
// the last len(window) samples. Until the window is filled it returns the
// plain arithmetic mean of the samples seen so far.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker  xsync.Mutex
	window  []float64
	ordered []float64
	next    int
	count   int
	sum     float64
	last    T
}

var _ MovingAverage[int64] = (*MAMA[int64])(nil)

func NewMAMADefault[T Number](n int) *MAMA[T] {
	return NewMAMA[T](n, 0.5, 0.05)
}

func NewMAMA[T Number](
	n int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	if n < 1 {
		n = 1
	}
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		window:    make([]float64, n),
		ordered:   make([]float64, n),
	}
}

func (m *MAMA[T]) Update(v T) T {
	ctx := xsync.WithNoLogging(context.Background(), true)
	return xsync.DoA1R1(ctx, &m.locker, m.update, v)
}

func (m *MAMA[T]) update(v T) T {
	m.window[m.next] = float64(v)
	m.next = (m.next + 1) % len(m.window)
	m.count++

	if m.count < len(m.window) {
		m.sum += float64(v)
		m.last = T(m.sum / float64(m.count))
		return m.last
	}

	// window:  3 4 5 6 7 0 1 2
	//                    ^ next
	// ordered: 0 1 2 3 4 5 6 7
	n := copy(m.ordered, m.window[m.next:])
	copy(m.ordered[n:], m.window[:m.next])

	result := indicators.MAMA(m.ordered, m.FastLimit, m.SlowLimit)
	m.last = T(result[len(result)-1])
	return m.last
}

func (m *MAMA[T]) Last() T {
	ctx := xsync.WithNoLogging(context.Background(), true)
	return xsync.DoR1(ctx, &m.locker, func() T {
		return m.last
	})
}

func (m *MAMA[T]) Valid() bool {
	ctx := xsync.WithNoLogging(context.Background(), true)
	return xsync.DoR1(ctx, &m.locker, func() bool {
		return m.count >= len(m.window)
	})
}

func (m *MAMA[T]) Window() int {
	return len(m.window)
}
