package format

import (
	"fmt"
	"strings"
)

// PixelLayout is the in-memory order of the color channels of a pixel.
type PixelLayout int

const (
	PixelLayoutUndefined = PixelLayout(iota)
	PixelLayoutBGR
	PixelLayoutRGB
	EndOfPixelLayout
)

func ParsePixelLayout(s string) (PixelLayout, error) {
	for l := PixelLayoutUndefined + 1; l < EndOfPixelLayout; l++ {
		if strings.EqualFold(l.String(), s) {
			return l, nil
		}
	}
	return PixelLayoutUndefined, fmt.Errorf("unknown pixel layout '%s'", s)
}

func (l PixelLayout) String() string {
	switch l {
	case PixelLayoutUndefined:
		return "<undefined>"
	case PixelLayoutBGR:
		return "BGR"
	case PixelLayoutRGB:
		return "RGB"
	default:
		return fmt.Sprintf("unknown_pixel_layout_%d", int(l))
	}
}

func (l PixelLayout) BytesPerPixel() int {
	switch l {
	case PixelLayoutBGR, PixelLayoutRGB:
		return 3
	default:
		return 0
	}
}
