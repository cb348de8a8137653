package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
)

// EdgeDetect replaces the frame content with its edge map:
//
//  1. BGR → intensity;
//  2. Gaussian smoothing;
//  3. Canny edge detection;
//  4. intensity → BGR (all three channels equal).
//
// The original colors are intentionally discarded.
//
// EdgeDetect reuses scratch buffers between calls and thus must not be
// used concurrently.
type EdgeDetect struct {
	Params EdgeDetectParams

	kernel  convolution.Matrix
	gray    *image.Gray
	blurred *image.Gray
	edges   *image.Gray
	scratch cannyScratch
}

var _ Abstract = (*EdgeDetect)(nil)

func NewEdgeDetect(params EdgeDetectParams) (*EdgeDetect, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return &EdgeDetect{
		Params: params,
		kernel: newGaussianKernel(params.BlurKernelSize),
	}, nil
}

func (e *EdgeDetect) String() string {
	return fmt.Sprintf("EdgeDetect(%s)", e.Params)
}

func (e *EdgeDetect) Process(
	ctx context.Context,
	m *matrix.BGR,
) (_err error) {
	logger.Tracef(ctx, "Process(%s)", m)
	defer func() { logger.Tracef(ctx, "/Process(%s): %v", m, _err) }()

	if m.Width() == 0 || m.Height() == 0 {
		return fmt.Errorf("empty matrix")
	}

	e.gray = m.ToGray(e.gray)
	e.blurred = gaussianBlur(e.gray, e.kernel, e.blurred)
	e.edges = canny(e.blurred, e.edges, e.Params.LowThreshold, e.Params.HighThreshold, e.Params.L2Gradient, &e.scratch)
	m.SetFromGray(e.edges)
	return nil
}
