package matrix

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBGRLayout(t *testing.T) {
	m := New(4, 2)
	m.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	i := m.PixOffset(1, 1)
	require.Equal(t, 4*3+3, i)
	require.Equal(t, []byte{30, 20, 10}, m.Pix[i:i+3])
	require.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, m.RGBAAt(1, 1))

	// out of bounds is ignored
	m.Set(4, 0, color.White)
	m.Set(-1, 0, color.White)
	require.Equal(t, color.RGBA{}, m.RGBAAt(10, 10))
}

func TestBGRWorksWithImageDraw(t *testing.T) {
	m := New(8, 8)
	draw.Draw(m, image.Rect(2, 2, 4, 4), image.NewUniform(color.RGBA{G: 255, A: 255}), image.Point{}, draw.Src)
	require.Equal(t, color.RGBA{G: 255, A: 255}, m.RGBAAt(3, 3))
	require.Equal(t, color.RGBA{A: 255}, m.RGBAAt(4, 4))
}

func TestGrayRoundTrip(t *testing.T) {
	m := New(3, 1)
	m.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255})
	m.SetRGBA(1, 0, color.RGBA{R: 255})
	m.SetRGBA(2, 0, color.RGBA{B: 255})

	g := m.ToGray(nil)
	require.Equal(t, []uint8{255, 76, 29}, g.Pix)

	m.SetFromGray(g)
	require.Equal(t, []byte{255, 255, 255, 76, 76, 76, 29, 29, 29}, m.Pix)
}

func TestRelease(t *testing.T) {
	var released []byte
	m := FromBytes(make([]byte, 12), 2, 2, func(b []byte) { released = b })
	clone := m.Clone()
	m.Release()
	require.Len(t, released, 12)
	require.Nil(t, m.Pix)

	// releasing twice is a no-op
	released = nil
	m.Release()
	require.Nil(t, released)

	require.Len(t, clone.Pix, 12)
}
