// bgr.go implements the pixel matrix the processing stages operate on.

// Package matrix provides a packed 3-channel pixel matrix compatible with
// Go's image interfaces.
package matrix

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// BGR is a packed 8-bit three-channel pixel matrix stored as B, G, R
// (the OpenCV CV_8UC3 layout). It implements draw.Image, so generic Go image
// code (and bild) can read it and draw on it.
//
// A BGR obtained from the bridge owns its storage exclusively until it is
// either encoded into a buffer or released.
type BGR struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle

	releaseFunc func([]byte)
}

var _ draw.Image = (*BGR)(nil)

// New allocates a zeroed (black) matrix.
func New(width, height int) *BGR {
	return FromBytes(make([]byte, width*height*3), width, height, nil)
}

// FromBytes builds a matrix over pix without copying; releaseFunc
// (may be nil) is called by Release.
func FromBytes(pix []byte, width, height int, releaseFunc func([]byte)) *BGR {
	return &BGR{
		Pix:         pix,
		Stride:      width * 3,
		Rect:        image.Rect(0, 0, width, height),
		releaseFunc: releaseFunc,
	}
}

func (m *BGR) Width() int {
	return m.Rect.Dx()
}

func (m *BGR) Height() int {
	return m.Rect.Dy()
}

// Size is the amount of bytes of the pixel data.
func (m *BGR) Size() int {
	return len(m.Pix)
}

func (m *BGR) String() string {
	return fmt.Sprintf("BGR(%dx%d)", m.Width(), m.Height())
}

func (m *BGR) ColorModel() color.Model {
	return color.RGBAModel
}

func (m *BGR) Bounds() image.Rectangle {
	return m.Rect
}

// PixOffset returns the index of the first (blue) byte of the pixel at (x, y).
func (m *BGR) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*3
}

func (m *BGR) At(x, y int) color.Color {
	return m.RGBAAt(x, y)
}

func (m *BGR) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(m.Rect)) {
		return color.RGBA{}
	}
	i := m.PixOffset(x, y)
	s := m.Pix[i : i+3 : i+3]
	return color.RGBA{R: s[2], G: s[1], B: s[0], A: 0xff}
}

func (m *BGR) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	m.SetRGBA(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

func (m *BGR) SetRGBA(x, y int, c color.RGBA) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	i := m.PixOffset(x, y)
	s := m.Pix[i : i+3 : i+3]
	s[0] = c.B
	s[1] = c.G
	s[2] = c.R
}

// Fill paints the rectangle r (clipped to the matrix) with c.
func (m *BGR) Fill(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(m.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[i+0] = c.B
			m.Pix[i+1] = c.G
			m.Pix[i+2] = c.R
			i += 3
		}
	}
}

// Clone returns a deep copy which owns its own (non-pooled) storage.
func (m *BGR) Clone() *BGR {
	pix := make([]byte, len(m.Pix))
	copy(pix, m.Pix)
	return &BGR{
		Pix:    pix,
		Stride: m.Stride,
		Rect:   m.Rect,
	}
}

// Detach hands the storage over to the caller: the matrix forgets
// both the storage and the release callback.
func (m *BGR) Detach() (pix []byte, releaseFunc func([]byte)) {
	pix, releaseFunc = m.Pix, m.releaseFunc
	m.Pix, m.releaseFunc = nil, nil
	return
}

// Release gives the storage back to its owner. The matrix must not be used afterwards.
func (m *BGR) Release() {
	pix, releaseFunc := m.Detach()
	if releaseFunc != nil && pix != nil {
		releaseFunc(pix)
	}
}
