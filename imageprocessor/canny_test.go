package imageprocessor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCannyTG22(t *testing.T) {
	require.Equal(t, int64(13573), cannyTG22)
}

func TestCannyDiagonalSuppression(t *testing.T) {
	const size = 16
	for _, tc := range []struct {
		name   string
		bright func(x, y int) bool
		edge   func(x, y int) bool
	}{
		{
			name:   "main-diagonal",
			bright: func(x, y int) bool { return x > y },
			edge:   func(x, y int) bool { return x-y == 0 || x-y == 1 },
		},
		{
			name:   "anti-diagonal",
			bright: func(x, y int) bool { return x+y > size },
			edge:   func(x, y int) bool { return x+y-size == 0 || x+y-size == 1 },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			src := image.NewGray(image.Rect(0, 0, size, size))
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					if tc.bright(x, y) {
						src.Pix[y*src.Stride+x] = 255
					}
				}
			}

			var scratch cannyScratch
			dst := canny(src, nil, 100, 200, false, &scratch)

			// away from the replicated border, the suppression along the
			// diagonal keeps exactly the two ridge pixels of each row
			for y := 2; y < size-2; y++ {
				for x := 2; x < size-2; x++ {
					v := dst.Pix[y*dst.Stride+x]
					if tc.edge(x, y) {
						require.Equal(t, uint8(255), v, "(%d,%d)", x, y)
					} else {
						require.Equal(t, uint8(0), v, "(%d,%d)", x, y)
					}
				}
			}
		})
	}
}
