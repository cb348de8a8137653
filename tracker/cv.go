//go:build with_cv
// +build with_cv

package tracker

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/edgetracker/internal"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// CV is a Backend implemented by one of the OpenCV trackers.
type CV struct {
	Kind    Kind
	Tracker gocv.Tracker
}

var _ Backend = (*CV)(nil)

func NewCV(ctx context.Context, kind Kind) (*CV, error) {
	var t gocv.Tracker
	switch kind {
	case KindKCF:
		t = contrib.NewTrackerKCF()
	case KindCSRT:
		t = contrib.NewTrackerCSRT()
	case KindMIL:
		t = gocv.NewTrackerMIL()
	default:
		return nil, ErrBackendUnavailable{Kind: kind}
	}
	cv := &CV{
		Kind:    kind,
		Tracker: t,
	}
	internal.SetFinalizerClose(ctx, cv)
	return cv, nil
}

func (t *CV) String() string {
	return fmt.Sprintf("CV(%s)", t.Kind)
}

func (t *CV) Init(
	ctx context.Context,
	m *matrix.BGR,
	box image.Rectangle,
) (_err error) {
	logger.Tracef(ctx, "Init(%s, %v)", m, box)
	defer func() { logger.Tracef(ctx, "/Init(%s, %v): %v", m, box, _err) }()

	mat, err := gocv.NewMatFromBytes(m.Height(), m.Width(), gocv.MatTypeCV8UC3, m.Pix)
	if err != nil {
		return fmt.Errorf("unable to wrap the frame into a Mat: %w", err)
	}
	defer mat.Close()

	if !t.Tracker.Init(mat, box) {
		return fmt.Errorf("the %s tracker refused to initialize at %v", t.Kind, box)
	}
	return nil
}

func (t *CV) Update(
	ctx context.Context,
	m *matrix.BGR,
) (_ret image.Rectangle, _ok bool) {
	logger.Tracef(ctx, "Update(%s)", m)
	defer func() { logger.Tracef(ctx, "/Update(%s): %v %v", m, _ret, _ok) }()

	mat, err := gocv.NewMatFromBytes(m.Height(), m.Width(), gocv.MatTypeCV8UC3, m.Pix)
	if err != nil {
		logger.Errorf(ctx, "unable to wrap the frame into a Mat: %v", err)
		return image.Rectangle{}, false
	}
	defer mat.Close()

	return t.Tracker.Update(mat)
}

func (t *CV) Close() error {
	if t.Tracker == nil {
		return nil
	}
	err := t.Tracker.Close()
	t.Tracker = nil
	return err
}
