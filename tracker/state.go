// state.go implements the lifecycle of the single tracked region.

// Package tracker provides the single-object tracker state machine and its
// tracking algorithms.
package tracker

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/edgetracker/internal"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
)

const DefaultBoxSize = 50

type Status int

const (
	StatusUninitialized = Status(iota)
	StatusTracking
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusTracking:
		return "tracking"
	default:
		return fmt.Sprintf("unknown_status_%d", int(s))
	}
}

// Result is the outcome of a single Step.
type Result struct {
	// Box is the current tracked region (the previous one if OK is false).
	Box image.Rectangle

	// OK is false if the tracker lost the object on this frame.
	OK bool

	// Initialized is true on the frame the tracker was seeded on.
	Initialized bool
}

// State tracks a single region across frames.
//
// It is initialized exactly once (on the first Step) and never re-initialized:
// a lost object is reported through Result.OK and the last known box is kept.
type State struct {
	Backend Backend

	// BoxSize is the side of the square seeded at the frame center.
	BoxSize int

	// InitialBox, if not empty, overrides the centered square.
	InitialBox image.Rectangle

	initialized         bool
	box                 image.Rectangle
	consecutiveFailures uint64
	totalFailures       uint64
}

func NewState(backend Backend) *State {
	return &State{
		Backend: backend,
		BoxSize: DefaultBoxSize,
	}
}

func (s *State) String() string {
	return fmt.Sprintf("TrackerState(%s, %s, %v)", s.Backend, s.Status(), s.box)
}

func (s *State) Status() Status {
	if s.initialized {
		return StatusTracking
	}
	return StatusUninitialized
}

func (s *State) IsInitialized() bool {
	return s.initialized
}

// Box returns the current tracked region (empty before initialization).
func (s *State) Box() image.Rectangle {
	return s.box
}

func (s *State) ConsecutiveFailures() uint64 {
	return s.consecutiveFailures
}

func (s *State) TotalFailures() uint64 {
	return s.totalFailures
}

// Step seeds the tracker on the first call and relocates the region on
// every following one.
func (s *State) Step(
	ctx context.Context,
	m *matrix.BGR,
) (_ret Result, _err error) {
	logger.Tracef(ctx, "Step(%s)", m)
	defer func() { logger.Tracef(ctx, "/Step(%s): %#+v %v", m, _ret, _err) }()

	if !s.initialized {
		return s.init(ctx, m)
	}

	box, ok := s.Backend.Update(ctx, m)
	if !ok {
		s.consecutiveFailures++
		s.totalFailures++
		// the frame may have shrunk since the box was found
		s.box = ClampBox(s.box, m.Bounds())
		return Result{Box: s.box, OK: false}, nil
	}

	s.consecutiveFailures = 0
	s.box = ClampBox(box, m.Bounds())
	return Result{Box: s.box, OK: true}, nil
}

func (s *State) init(
	ctx context.Context,
	m *matrix.BGR,
) (Result, error) {
	internal.Assert(ctx, !s.initialized, "the tracker must be initialized only once")

	box := s.InitialBox
	if box.Empty() {
		box = InitialBox(m.Width(), m.Height(), s.BoxSize)
	}
	box = ClampBox(box, m.Bounds())
	if box.Empty() {
		return Result{}, fmt.Errorf("the frame %v is too small to place a region into", m.Bounds())
	}

	if err := s.Backend.Init(ctx, m, box); err != nil {
		return Result{}, fmt.Errorf("unable to initialize %s at %v: %w", s.Backend, box, err)
	}

	s.initialized = true
	s.box = box
	logger.Debugf(ctx, "tracker %s initialized at %v", s.Backend, box)
	return Result{Box: box, OK: true, Initialized: true}, nil
}

func (s *State) Close() error {
	return s.Backend.Close()
}

// InitialBox is the size×size square centered on a width×height frame:
// the top-left corner is (width/2 - size/2, height/2 - size/2) with integer
// truncation.
func InitialBox(width, height, size int) image.Rectangle {
	x := width/2 - size/2
	y := height/2 - size/2
	return image.Rect(x, y, x+size, y+size)
}

// ClampBox moves (and, if needed, shrinks) box so it fits into bounds.
func ClampBox(box, bounds image.Rectangle) image.Rectangle {
	box = box.Canon()
	w := min(box.Dx(), bounds.Dx())
	h := min(box.Dy(), bounds.Dy())
	x := min(max(box.Min.X, bounds.Min.X), bounds.Max.X-w)
	y := min(max(box.Min.Y, bounds.Min.Y), bounds.Max.Y-h)
	return image.Rect(x, y, x+w, y+h)
}
