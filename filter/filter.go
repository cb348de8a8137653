// filter.go implements the edge-detecting, object-tracking video filter element.

// Package filter provides the pipeline element which turns incoming frames
// into edge maps and tracks a single region across them.
package filter

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/helpers/closuresignaler"
	"github.com/xaionaro-go/edgetracker/imageprocessor"
	"github.com/xaionaro-go/edgetracker/indicator"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/tracker"
	"github.com/xaionaro-go/edgetracker/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const processingTimeWindow = 30

type trackerSnapshot struct {
	Status tracker.Status
	Box    image.Rectangle
}

// Filter is a single pipeline element: buffers enter through Chain,
// format notifications and other events through HandleEvent, and
// the results leave through the downstream Pad.
type Filter struct {
	// Locker serializes the data path and the event path.
	Locker xsync.Mutex

	Config     Config
	Downstream Pad

	enabled atomic.Bool
	silent  atomic.Bool

	formats   *format.Registry
	processor imageprocessor.Abstract
	tracker   *tracker.State
	framePool *frame.Pool

	snapshotLocker xsync.RWMutex
	snapshot       trackerSnapshot

	counters       types.Counters
	processingTime *indicator.MAMA[time.Duration]
	lastFrameTime  atomic.Duration

	closer *closuresignaler.ClosureSignaler
}

var _ types.Closer = (*Filter)(nil)

func New(
	ctx context.Context,
	cfg Config,
	downstream Pad,
) (_ret *Filter, _err error) {
	logger.Debugf(ctx, "New(%s)", spew.Sdump(cfg))
	defer func() { logger.Debugf(ctx, "/New: %v", _err) }()

	if downstream == nil {
		return nil, fmt.Errorf("downstream pad is not set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	processor, err := imageprocessor.NewEdgeDetector(cfg.EdgeDetect)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the edge detector: %w", err)
	}

	backend, err := tracker.NewBackend(ctx, cfg.TrackerKind, cfg.TemplateParams)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the tracker: %w", err)
	}
	trackerState := tracker.NewState(backend)
	if cfg.BoxSize > 0 {
		trackerState.BoxSize = cfg.BoxSize
	}
	trackerState.InitialBox = cfg.InitialBox

	f := &Filter{
		Config:         cfg,
		Downstream:     downstream,
		formats:        format.NewRegistry(),
		processor:      processor,
		tracker:        trackerState,
		processingTime: indicator.NewMAMADefault[time.Duration](processingTimeWindow),
		closer:         closuresignaler.New(),
	}
	f.enabled.Store(cfg.Enabled)
	f.silent.Store(cfg.Silent)
	return f, nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("EdgeTracker(%s)", types.GetObjectID(f))
}

// SetEnabled switches between processing and bypass; it takes effect
// starting with the next buffer.
func (f *Filter) SetEnabled(enabled bool) {
	f.enabled.Store(enabled)
}

func (f *Filter) IsEnabled() bool {
	return f.enabled.Load()
}

// SetSilent changes the verbosity of per-frame diagnostics.
func (f *Filter) SetSilent(silent bool) {
	f.silent.Store(silent)
}

func (f *Filter) IsSilent() bool {
	return f.silent.Load()
}

// Format returns the currently negotiated frame format
// (zero if none was negotiated yet).
func (f *Filter) Format(ctx context.Context) format.FrameFormat {
	return f.formats.Get(ctx)
}

func (f *Filter) TrackerStatus(ctx context.Context) tracker.Status {
	return f.getSnapshot(ctx).Status
}

// TrackerBox returns the last known tracked region.
func (f *Filter) TrackerBox(ctx context.Context) image.Rectangle {
	return f.getSnapshot(ctx).Box
}

func (f *Filter) getSnapshot(ctx context.Context) trackerSnapshot {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &f.snapshotLocker, func() trackerSnapshot {
		return f.snapshot
	})
}

func (f *Filter) updateSnapshot(ctx context.Context) {
	s := trackerSnapshot{
		Status: f.tracker.Status(),
		Box:    f.tracker.Box(),
	}
	f.snapshotLocker.Do(xsync.WithNoLogging(ctx, true), func() {
		f.snapshot = s
	})
}

func (f *Filter) Stats() types.Statistics {
	stats := f.counters.ToStats()
	stats.ProcessingTimeSmoothed = f.processingTime.Last()
	stats.ProcessingTimeLastFrame = f.lastFrameTime.Load()
	return stats
}

// CloseChan is closed once the filter is closed.
func (f *Filter) CloseChan() <-chan struct{} {
	return f.closer.CloseChan()
}

func (f *Filter) IsClosed() bool {
	return f.closer.IsClosed()
}

// Close stops accepting buffers and releases the tracker.
func (f *Filter) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &f.Locker, func() error {
		if !f.closer.Close(ctx) {
			return nil
		}
		if err := f.tracker.Close(); err != nil {
			return fmt.Errorf("unable to close the tracker: %w", err)
		}
		return nil
	})
}

// logLevel is the level for per-frame conditions that are
// warnings unless the filter is silent.
func (f *Filter) logLevel(level logger.Level) logger.Level {
	return logger.DemoteIfSilent(f.IsSilent(), level)
}
