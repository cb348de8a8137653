package imageprocessor

import (
	"image"
	"image/color"

	"github.com/xaionaro-go/edgetracker/matrix"
)

// HighlightColor is the outline color of the tracked region: pure blue
// (BGR 255,0,0).
var HighlightColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

const DefaultThickness = 2

// DrawRectangle draws a non-antialiased outline of r with the given stroke
// thickness; the stroke is centered on the border (corners r.Min and r.Max
// inclusive, like cv::rectangle). A non-positive thickness fills r.
// Everything outside of the matrix is clipped.
func DrawRectangle(
	m *matrix.BGR,
	r image.Rectangle,
	c color.RGBA,
	thickness int,
) {
	r = r.Canon()
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	if thickness <= 0 {
		m.Fill(image.Rect(x0, y0, x1+1, y1+1), c)
		return
	}

	lo := -(thickness / 2)
	hi := thickness + lo
	m.Fill(image.Rect(x0+lo, y0+lo, x1+hi, y0+hi), c) // top
	m.Fill(image.Rect(x0+lo, y1+lo, x1+hi, y1+hi), c) // bottom
	m.Fill(image.Rect(x0+lo, y0+lo, x0+hi, y1+hi), c) // left
	m.Fill(image.Rect(x1+lo, y0+lo, x1+hi, y1+hi), c) // right
}
