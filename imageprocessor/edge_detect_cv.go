//go:build with_cv
// +build with_cv

package imageprocessor

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
	"gocv.io/x/gocv"
)

// EdgeDetectCV is EdgeDetect implemented with OpenCV.
type EdgeDetectCV struct {
	Params EdgeDetectParams
}

var _ Abstract = (*EdgeDetectCV)(nil)

func NewEdgeDetectCV(params EdgeDetectParams) (*EdgeDetectCV, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.L2Gradient {
		return nil, fmt.Errorf("L2 gradient is not supported by the OpenCV binding")
	}
	return &EdgeDetectCV{
		Params: params,
	}, nil
}

func (e *EdgeDetectCV) String() string {
	return fmt.Sprintf("EdgeDetectCV(%s)", e.Params)
}

func (e *EdgeDetectCV) Process(
	ctx context.Context,
	m *matrix.BGR,
) (_err error) {
	logger.Tracef(ctx, "Process(%s)", m)
	defer func() { logger.Tracef(ctx, "/Process(%s): %v", m, _err) }()

	mat, err := gocv.NewMatFromBytes(m.Height(), m.Width(), gocv.MatTypeCV8UC3, m.Pix)
	if err != nil {
		return fmt.Errorf("unable to wrap the frame into a Mat: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	k := e.Params.BlurKernelSize
	gocv.GaussianBlur(gray, &gray, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(e.Params.LowThreshold), float32(e.Params.HighThreshold))

	gocv.CvtColor(edges, &mat, gocv.ColorGrayToBGR)

	result := mat.ToBytes()
	if len(result) != len(m.Pix) {
		return fmt.Errorf("internal error: OpenCV returned %d bytes instead of %d", len(result), len(m.Pix))
	}
	copy(m.Pix, result)
	return nil
}
