// frame.go defines Buffer: one raw video frame plus its timing metadata.

// Package frame provides the buffer type exchanged between pipeline elements.
package frame

import (
	"fmt"
	"sync/atomic"

	"github.com/xaionaro-go/edgetracker/types"
)

// Buffer is one video frame in row-major pixel order tagged with timing metadata.
//
// A Buffer is reference counted: whoever creates it holds the first
// reference, and the memory is released (e.g. returned to its Pool)
// when the last reference is dropped via Unref.
type Buffer struct {
	PTS      types.ClockTime
	DTS      types.ClockTime
	Duration types.ClockTime
	Offset   uint64

	Memory Memory

	refCount atomic.Int32
}

// NewBuffer wraps data into a new Buffer without timing metadata.
// The Buffer takes ownership of data.
func NewBuffer(data []byte) *Buffer {
	return NewBufferFromMemory(NewBytesMemory(data))
}

// NewBufferFromMemory wraps the given memory into a new Buffer without timing metadata.
func NewBufferFromMemory(mem Memory) *Buffer {
	b := &Buffer{
		PTS:      types.ClockTimeNone,
		DTS:      types.ClockTimeNone,
		Duration: types.ClockTimeNone,
		Offset:   types.OffsetNone,
		Memory:   mem,
	}
	b.refCount.Store(1)
	return b
}

// Ref adds a reference and returns the same buffer for convenience.
func (b *Buffer) Ref() *Buffer {
	b.refCount.Add(1)
	return b
}

// Unref drops a reference; the memory is released when the last one is gone.
func (b *Buffer) Unref() {
	switch refs := b.refCount.Add(-1); {
	case refs > 0:
		return
	case refs < 0:
		panic(fmt.Sprintf("buffer %p was unreferenced more times than referenced", b))
	}
	if releaser, ok := b.Memory.(Releaser); ok {
		releaser.Release()
	}
}

// RefCount returns the current amount of references.
func (b *Buffer) RefCount() int {
	return int(b.refCount.Load())
}

// Size returns the size of the frame data in bytes (0 if there is no memory).
func (b *Buffer) Size() int {
	if b.Memory == nil {
		return 0
	}
	return b.Memory.Size()
}

// Map provides access to the frame data. Every successful Map must be
// paired with an Unmap; the returned slice must not be used after Unmap.
func (b *Buffer) Map(flags MapFlags) ([]byte, error) {
	if b.Memory == nil {
		return nil, ErrMap{Flags: flags, Err: fmt.Errorf("the buffer has no memory")}
	}
	data, err := b.Memory.Map(flags)
	if err != nil {
		return nil, ErrMap{Flags: flags, Err: err}
	}
	return data, nil
}

func (b *Buffer) Unmap() {
	b.Memory.Unmap()
}

func (b *Buffer) String() string {
	if b == nil {
		return "<Buffer:nil>"
	}
	return fmt.Sprintf(
		"Buffer(size:%d, pts:%s, dts:%s, dur:%s, offset:%d)",
		b.Size(), b.PTS, b.DTS, b.Duration, b.Offset,
	)
}
