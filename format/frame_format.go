package format

import (
	"fmt"
)

// MaxDimension is the largest accepted frame width or height; it keeps
// FrameSize far away from int overflow.
const MaxDimension = 1 << 15

// FrameFormat is the negotiated geometry and pixel layout of the frames.
// The zero value is the "not negotiated yet" format.
type FrameFormat struct {
	Width  int
	Height int
	Layout PixelLayout
}

func (f FrameFormat) IsValid() bool {
	return f.Width > 0 && f.Height > 0 &&
		f.Width <= MaxDimension && f.Height <= MaxDimension &&
		f.Layout.BytesPerPixel() > 0
}

func (f FrameFormat) BytesPerPixel() int {
	return f.Layout.BytesPerPixel()
}

// FrameSize is the amount of bytes a single frame of this format occupies.
func (f FrameFormat) FrameSize() int {
	return f.Width * f.Height * f.BytesPerPixel()
}

func (f FrameFormat) String() string {
	if !f.IsValid() {
		return "<not negotiated>"
	}
	return fmt.Sprintf("%dx%d/%s", f.Width, f.Height, f.Layout)
}
