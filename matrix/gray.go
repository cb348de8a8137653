package matrix

import (
	"image"
)

// ToGray converts the matrix into a single-channel intensity image
// using the BT.601 luma weights (the ones OpenCV's BGR2GRAY uses).
func (m *BGR) ToGray(dst *image.Gray) *image.Gray {
	if dst == nil || dst.Rect != m.Rect {
		dst = image.NewGray(m.Rect)
	}
	w, h := m.Width(), m.Height()
	for y := 0; y < h; y++ {
		src := m.Pix[y*m.Stride : y*m.Stride+w*3]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range out {
			b, g, r := uint32(src[x*3]), uint32(src[x*3+1]), uint32(src[x*3+2])
			// fixed-point 0.114*B + 0.587*G + 0.299*R, rounded
			out[x] = uint8((b*1868 + g*9617 + r*4899 + 8192) >> 14)
		}
	}
	return dst
}

// SetFromGray replicates a single-channel image into all three channels.
func (m *BGR) SetFromGray(src *image.Gray) {
	w, h := m.Width(), m.Height()
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w]
		out := m.Pix[y*m.Stride : y*m.Stride+w*3]
		for x, v := range in {
			out[x*3+0] = v
			out[x*3+1] = v
			out[x*3+2] = v
		}
	}
}
