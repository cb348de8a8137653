// bridge.go converts frame buffers into pixel matrices and back.

// Package bridge converts between frame buffers and pixel matrices.
package bridge

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
)

// Decode produces a pixel matrix with the content of the buffer.
//
// The buffer is only read: its bytes are copied into storage taken from
// pool (or freshly allocated if pool is nil) which the returned matrix owns
// exclusively, so the processing stages may mutate it in place. The matrix
// must be either passed to Encode or released.
func Decode(
	ctx context.Context,
	buf *frame.Buffer,
	f format.FrameFormat,
	pool *frame.Pool,
) (_ret *matrix.BGR, _err error) {
	logger.Tracef(ctx, "Decode(%s, %s)", buf, f)
	defer func() { logger.Tracef(ctx, "/Decode(%s, %s): %v", buf, f, _err) }()

	if !f.IsValid() {
		return nil, ErrFormatNotNegotiated{}
	}

	expectedSize := f.FrameSize()
	if size := buf.Size(); size != expectedSize {
		return nil, ErrSizeMismatch{Expected: expectedSize, Actual: size}
	}

	data, err := buf.Map(frame.MapRead)
	if err != nil {
		return nil, err
	}
	defer buf.Unmap()
	if len(data) != expectedSize {
		return nil, ErrSizeMismatch{Expected: expectedSize, Actual: len(data)}
	}

	var (
		pix         []byte
		releaseFunc func([]byte)
	)
	if pool != nil && pool.FrameSize == expectedSize {
		pix = pool.Get()
		releaseFunc = pool.Put
	} else {
		pix = make([]byte, expectedSize)
	}
	copy(pix, data)

	return matrix.FromBytes(pix, f.Width, f.Height, releaseFunc), nil
}

// Encode wraps the matrix storage into a new buffer. The buffer takes over
// the ownership of the storage (no copy is made) and the matrix becomes
// empty. The buffer carries no timing metadata; see frame.CopyMetadata.
func Encode(
	ctx context.Context,
	m *matrix.BGR,
	f format.FrameFormat,
) (_ret *frame.Buffer, _err error) {
	logger.Tracef(ctx, "Encode(%s, %s)", m, f)
	defer func() { logger.Tracef(ctx, "/Encode(%s, %s): %v", m, f, _err) }()

	if !f.IsValid() {
		return nil, ErrFormatNotNegotiated{}
	}
	if m.Width() != f.Width || m.Height() != f.Height {
		return nil, fmt.Errorf("the matrix is %dx%d, but the format is %s", m.Width(), m.Height(), f)
	}
	expectedSize := f.FrameSize()
	if size := m.Size(); size != expectedSize {
		return nil, ErrSizeMismatch{Expected: expectedSize, Actual: size}
	}

	pix, releaseFunc := m.Detach()
	mem := frame.NewBytesMemory(pix)
	mem.ReleaseFunc = releaseFunc
	return frame.NewBufferFromMemory(mem), nil
}
