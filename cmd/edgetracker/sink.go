package main

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/xaionaro-go/edgetracker/event"
	"github.com/xaionaro-go/edgetracker/filter"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/helpers/closuresignaler"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
	"github.com/xaionaro-go/edgetracker/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

// countingSink consumes the filter output, checks the timestamps
// are monotonic and keeps a copy of the latest frame.
type countingSink struct {
	locker      xsync.Mutex
	format      format.FrameFormat
	lastPTS     types.ClockTime
	lastFrame   []byte
	buffers     atomic.Uint64
	bytes       atomic.Uint64
	ptsProblems atomic.Uint64
	eos         *closuresignaler.ClosureSignaler
}

var _ filter.Pad = (*countingSink)(nil)

func newCountingSink() *countingSink {
	return &countingSink{
		lastPTS: types.ClockTimeNone,
		eos:     closuresignaler.New(),
	}
}

func (s *countingSink) Push(
	ctx context.Context,
	buf *frame.Buffer,
) types.FlowReturn {
	defer buf.Unref()
	s.buffers.Add(1)
	s.bytes.Add(uint64(buf.Size()))

	return xsync.DoA2R1(xsync.WithNoLogging(ctx, true), &s.locker, s.push, ctx, buf)
}

func (s *countingSink) push(
	ctx context.Context,
	buf *frame.Buffer,
) types.FlowReturn {
	if buf.PTS.IsValid() && s.lastPTS.IsValid() && buf.PTS <= s.lastPTS {
		s.ptsProblems.Add(1)
		logger.Warnf(ctx, "non-monotonic PTS: %s after %s", buf.PTS, s.lastPTS)
	}
	s.lastPTS = buf.PTS

	data, err := buf.Map(frame.MapRead)
	if err != nil {
		logger.Errorf(ctx, "unable to read the output buffer: %v", err)
		return types.FlowError
	}
	defer buf.Unmap()
	s.lastFrame = append(s.lastFrame[:0], data...)
	return types.FlowOK
}

func (s *countingSink) PushEvent(
	ctx context.Context,
	ev event.Event,
) bool {
	logger.Debugf(ctx, "PushEvent(%s)", ev)
	switch ev := ev.(type) {
	case *event.Caps:
		f, err := format.FrameFormatFromStructure(ev.Structure)
		if err != nil {
			logger.Warnf(ctx, "unable to parse caps %s: %v", ev.Structure, err)
			return true
		}
		s.locker.Do(xsync.WithNoLogging(ctx, true), func() {
			s.format = f
		})
	case *event.EOS:
		if !s.eos.Close(ctx) {
			logger.Warnf(ctx, "received EOS more than once")
		}
	}
	return true
}

// SaveLastFrame writes the latest output frame into an image file
// (the format is chosen by the extension: png, jpg or bmp).
func (s *countingSink) SaveLastFrame(
	ctx context.Context,
	path string,
) error {
	m, err := xsync.DoR2(ctx, &s.locker, func() (image.Image, error) {
		if len(s.lastFrame) == 0 {
			return nil, fmt.Errorf("no frames received")
		}
		if s.format.FrameSize() != len(s.lastFrame) {
			return nil, fmt.Errorf("the last frame (%d bytes) does not match format %s", len(s.lastFrame), s.format)
		}
		pix := append([]byte(nil), s.lastFrame...)
		return matrix.FromBytes(pix, s.format.Width, s.format.Height, nil), nil
	})
	if err != nil {
		return err
	}

	encoder, err := encoderForPath(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, m, encoder); err != nil {
		return fmt.Errorf("unable to save '%s': %w", path, err)
	}
	return nil
}
