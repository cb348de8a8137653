package filter

import (
	"context"
	"errors"

	"github.com/xaionaro-go/edgetracker/event"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/xsync"
)

// HandleEvent applies format notifications and forwards every event downstream.
func (f *Filter) HandleEvent(
	ctx context.Context,
	ev event.Event,
) (_ret bool) {
	logger.Tracef(ctx, "HandleEvent(%s)", ev)
	defer func() { logger.Tracef(ctx, "/HandleEvent(%s): %v", ev, _ret) }()
	return xsync.DoA2R1(ctx, &f.Locker, f.handleEvent, ctx, ev)
}

func (f *Filter) handleEvent(
	ctx context.Context,
	ev event.Event,
) bool {
	if f.closer.IsClosed() {
		logger.Debugf(ctx, "%s is closed, dropping event %s", f, ev)
		return false
	}

	switch ev := ev.(type) {
	case *event.Caps:
		f.applyCaps(ctx, ev.Structure)
	}

	return f.Downstream.PushEvent(ctx, ev)
}

func (f *Filter) applyCaps(
	ctx context.Context,
	s format.Structure,
) {
	frameFormat, err := f.formats.Update(ctx, s)
	if err != nil {
		var errMissing format.ErrFormatMissing
		if errors.As(err, &errMissing) {
			f.counters.FormatMissing.Add(1)
		}
		logger.Logf(ctx, f.logLevel(logger.LevelWarning), "%s: unable to get the frame format from %s: %v; keeping %s", f, s, err, frameFormat)
		return
	}

	if f.framePool == nil || f.framePool.FrameSize != frameFormat.FrameSize() {
		f.framePool = frame.NewPool(frameFormat.FrameSize())
	}
	logger.Debugf(ctx, "%s: negotiated %s", f, frameFormat)
}
