package imageprocessor

import (
	"fmt"
)

// EdgeDetectParams configures the grayscale → smoothing → edges → 3-channel chain.
type EdgeDetectParams struct {
	BlurKernelSize int     `yaml:"blur_kernel_size"`
	LowThreshold   float64 `yaml:"low_threshold"`
	HighThreshold  float64 `yaml:"high_threshold"`
	ApertureSize   int     `yaml:"aperture_size"`
	L2Gradient     bool    `yaml:"l2_gradient"`
}

func DefaultEdgeDetectParams() EdgeDetectParams {
	return EdgeDetectParams{
		BlurKernelSize: 3,
		LowThreshold:   100,
		HighThreshold:  200,
		ApertureSize:   3,
		L2Gradient:     false,
	}
}

func (p EdgeDetectParams) Validate() error {
	if p.BlurKernelSize < 1 || p.BlurKernelSize%2 == 0 {
		return fmt.Errorf("blur kernel size must be a positive odd number, got %d", p.BlurKernelSize)
	}
	if p.ApertureSize != 3 {
		return fmt.Errorf("only aperture size 3 is supported, got %d", p.ApertureSize)
	}
	if p.LowThreshold < 0 || p.HighThreshold < p.LowThreshold {
		return fmt.Errorf("invalid thresholds: low=%v high=%v", p.LowThreshold, p.HighThreshold)
	}
	return nil
}

func (p EdgeDetectParams) String() string {
	return fmt.Sprintf("blur:%d, thresholds:%v..%v, aperture:%d, L2:%t",
		p.BlurKernelSize, p.LowThreshold, p.HighThreshold, p.ApertureSize, p.L2Gradient)
}
