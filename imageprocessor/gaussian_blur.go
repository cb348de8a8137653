package imageprocessor

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

// newGaussianKernel returns a normalized size×size binomial kernel; for
// sizes 3 and 5 it is exactly what OpenCV uses for a Gaussian with sigma=0.
func newGaussianKernel(size int) convolution.Matrix {
	row := make([]float64, size)
	row[0] = 1
	for i := 1; i < size; i++ {
		for j := i; j > 0; j-- {
			row[j] += row[j-1]
		}
	}

	k := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k.Matrix[y*size+x] = row[y] * row[x]
		}
	}
	return k.Normalized()
}

// gaussianBlur smooths a single-channel image; the border is replicated.
func gaussianBlur(
	src *image.Gray,
	kernel convolution.Matrix,
	dst *image.Gray,
) *image.Gray {
	if dst == nil || dst.Rect != src.Rect {
		dst = image.NewGray(src.Rect)
	}
	blurred := convolution.Convolve(src, kernel, &convolution.Options{
		Bias:      0,
		Wrap:      false,
		KeepAlpha: true,
	})
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		in := blurred.Pix[y*blurred.Stride : y*blurred.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range out {
			out[x] = in[x*4]
		}
	}
	return dst
}
