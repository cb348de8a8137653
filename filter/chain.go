package filter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/xaionaro-go/edgetracker/bridge"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/imageprocessor"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
	"github.com/xaionaro-go/edgetracker/types"
	"github.com/xaionaro-go/xsync"
)

// Chain processes one buffer and pushes the result downstream, returning
// the downstream's verdict. Chain takes over the reference to buf.
//
// Buffers which cannot be processed (no format yet, unexpected size) are
// forwarded untouched; only a buffer which cannot be read at all results
// in FlowError.
func (f *Filter) Chain(
	ctx context.Context,
	buf *frame.Buffer,
) (_ret types.FlowReturn) {
	logger.Tracef(ctx, "Chain(%s)", buf)
	defer func() { logger.Tracef(ctx, "/Chain(%s): %s", buf, _ret) }()
	return xsync.DoA2R1(ctx, &f.Locker, f.chain, ctx, buf)
}

func (f *Filter) chain(
	ctx context.Context,
	buf *frame.Buffer,
) types.FlowReturn {
	if f.closer.IsClosed() {
		buf.Unref()
		return types.FlowFlushing
	}

	size := uint64(buf.Size())
	f.counters.Received.Increment(size)

	if !f.enabled.Load() {
		f.counters.Bypassed.Increment(size)
		return f.Downstream.Push(ctx, buf)
	}

	out, err := f.process(ctx, buf)
	switch {
	case err == nil:
		f.counters.Processed.Increment(size)
		buf.Unref()
		return f.Downstream.Push(ctx, out)
	case errors.As(err, &bridge.ErrFormatNotNegotiated{}):
		f.counters.PassedNotNegotiated.Increment(size)
		logger.Logf(ctx, f.logLevel(logger.LevelWarning), "%s: received a buffer before the format was negotiated; passing it through", f)
		return f.Downstream.Push(ctx, buf)
	case errors.As(err, &bridge.ErrSizeMismatch{}):
		f.counters.PassedSizeMismatch.Increment(size)
		logger.Logf(ctx, f.logLevel(logger.LevelWarning), "%s: %v; passing the buffer through", f, err)
		return f.Downstream.Push(ctx, buf)
	case errors.As(err, &frame.ErrMap{}):
		f.counters.MapFailures.Increment(size)
		logger.Errorf(ctx, "%s: %v", f, err)
		buf.Unref()
		return types.FlowError
	default:
		// the buffer was not modified, so it is still safe to forward
		logger.Errorf(ctx, "%s: unable to process %s: %v; passing it through", f, buf, err)
		return f.Downstream.Push(ctx, buf)
	}
}

// process builds the output buffer for in; in itself is never modified.
func (f *Filter) process(
	ctx context.Context,
	in *frame.Buffer,
) (_ret *frame.Buffer, _err error) {
	logger.Tracef(ctx, "process(%s)", in)
	defer func() { logger.Tracef(ctx, "/process(%s): %v", in, _err) }()

	startedAt := time.Now()

	frameFormat := f.formats.Get(ctx)
	m, err := bridge.Decode(ctx, in, frameFormat, f.framePool)
	if err != nil {
		return nil, err
	}
	defer m.Release()

	if err := f.processor.Process(ctx, m); err != nil {
		return nil, fmt.Errorf("unable to transform the frame: %w", err)
	}

	box, ok := f.trackerStep(ctx, m)
	if ok {
		imageprocessor.DrawRectangle(m, outline(box), f.Config.Highlight, f.Config.Thickness)
	}

	out, err := bridge.Encode(ctx, m, frameFormat)
	if err != nil {
		return nil, fmt.Errorf("unable to construct the output buffer: %w", err)
	}
	frame.CopyMetadata(out, in)

	elapsed := time.Since(startedAt)
	f.lastFrameTime.Store(elapsed)
	f.processingTime.Update(elapsed)
	return out, nil
}

// trackerStep advances the tracker; ok is false if there is no region
// to draw (the tracker could not be initialized).
func (f *Filter) trackerStep(
	ctx context.Context,
	m *matrix.BGR,
) (_ image.Rectangle, ok bool) {
	defer f.updateSnapshot(ctx)

	res, err := f.tracker.Step(ctx, m)
	if err != nil {
		logger.Logf(ctx, f.logLevel(logger.LevelWarning), "%s: unable to initialize the tracker: %v", f, err)
		return image.Rectangle{}, false
	}

	switch {
	case res.Initialized:
		logger.Logf(ctx, f.logLevel(logger.LevelInfo), "%s: tracking %v", f, res.Box)
	case !res.OK:
		f.counters.TrackingFailures.Add(1)
		if failures := f.tracker.ConsecutiveFailures(); failures == 1 {
			logger.Logf(ctx, f.logLevel(logger.LevelWarning), "%s: lost the object, keeping %v", f, res.Box)
		} else {
			logger.Tracef(ctx, "%s: the object is still lost (%d frames)", f, failures)
		}
	}
	return res.Box, true
}

// outline converts a half-open region into the inclusive corners
// DrawRectangle expects.
func outline(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: r.Min, Max: r.Max.Sub(image.Pt(1, 1))}
}
