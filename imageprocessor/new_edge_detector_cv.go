//go:build with_cv
// +build with_cv

package imageprocessor

// NewEdgeDetector returns the best available edge detector for this build.
func NewEdgeDetector(params EdgeDetectParams) (Abstract, error) {
	if params.L2Gradient {
		return NewEdgeDetect(params)
	}
	return NewEdgeDetectCV(params)
}
