package imageprocessor

import (
	"image"
	"math"
)

const (
	cannyMaybeEdge = uint8(0)
	cannyNotEdge   = uint8(1)
	cannyEdge      = uint8(2)
)

// tan(22.5°) in Q15, rounded to nearest
const cannyTG22 = int64(13573)

// cannyScratch keeps the per-frame working buffers between frames to avoid
// reallocating them; it holds no frame content across calls.
type cannyScratch struct {
	dx    []int32
	dy    []int32
	mag   []int64
	state []uint8
	stack []int
}

func (s *cannyScratch) reset(n int) {
	if cap(s.dx) < n {
		s.dx = make([]int32, n)
		s.dy = make([]int32, n)
		s.mag = make([]int64, n)
		s.state = make([]uint8, n)
	}
	s.dx = s.dx[:n]
	s.dy = s.dy[:n]
	s.mag = s.mag[:n]
	s.state = s.state[:n]
	s.stack = s.stack[:0]
}

// canny detects edges on src and writes 255 (edge) or 0 into dst.
//
// It follows the classic algorithm: 3×3 Sobel gradients with a replicated
// border, non-maximum suppression along the quantized gradient direction,
// then double thresholding with hysteresis. With l2Gradient the magnitude is
// sqrt(dx²+dy²), otherwise |dx|+|dy|.
func canny(
	src *image.Gray,
	dst *image.Gray,
	low, high float64,
	l2Gradient bool,
	s *cannyScratch,
) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if dst == nil || dst.Rect != src.Rect {
		dst = image.NewGray(src.Rect)
	}
	n := w * h
	s.reset(n)

	pixel := func(x, y int) int32 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return int32(src.Pix[y*src.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, t, tr := pixel(x-1, y-1), pixel(x, y-1), pixel(x+1, y-1)
			l, r := pixel(x-1, y), pixel(x+1, y)
			bl, b, br := pixel(x-1, y+1), pixel(x, y+1), pixel(x+1, y+1)
			dx := (tr + 2*r + br) - (tl + 2*l + bl)
			dy := (bl + 2*b + br) - (tl + 2*t + tr)
			i := y*w + x
			s.dx[i], s.dy[i] = dx, dy
			if l2Gradient {
				s.mag[i] = int64(dx)*int64(dx) + int64(dy)*int64(dy)
			} else {
				s.mag[i] = int64(abs32(dx)) + int64(abs32(dy))
			}
		}
	}

	var lowT, highT int64
	if l2Gradient {
		// compare squared magnitudes against squared thresholds
		lowT = int64(math.Floor(low * low))
		highT = int64(math.Floor(high * high))
	} else {
		lowT = int64(math.Floor(low))
		highT = int64(math.Floor(high))
	}

	magAt := func(x, y int) int64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return s.mag[y*w+x]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := s.mag[i]
			s.state[i] = cannyNotEdge
			if m <= lowT {
				continue
			}

			dx, dy := s.dx[i], s.dy[i]
			xs, ys := int64(abs32(dx)), int64(abs32(dy))<<15
			tg22x := xs * cannyTG22

			var isMax bool
			switch {
			case ys < tg22x:
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys > tg22x+(xs<<16):
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				sign := 1
				if (dx ^ dy) < 0 {
					sign = -1
				}
				isMax = m > magAt(x-sign, y-1) && m > magAt(x+sign, y+1)
			}
			if !isMax {
				continue
			}

			if m > highT {
				s.state[i] = cannyEdge
				s.stack = append(s.stack, i)
			} else {
				s.state[i] = cannyMaybeEdge
			}
		}
	}

	for len(s.stack) > 0 {
		i := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			if ny < 0 || ny >= h {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= w {
					continue
				}
				j := ny*w + nx
				if s.state[j] == cannyMaybeEdge {
					s.state[j] = cannyEdge
					s.stack = append(s.stack, j)
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		st := s.state[y*w : y*w+w]
		for x := range out {
			if st[x] == cannyEdge {
				out[x] = 255
			} else {
				out[x] = 0
			}
		}
	}
	return dst
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
