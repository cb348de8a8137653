package tracker

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
)

type TemplateParams struct {
	// SearchRadius is how far (in pixels, per axis) the object may move between frames.
	SearchRadius int `yaml:"search_radius"`

	// MinScore is the lowest accepted similarity in [0, 1], where the
	// similarity is 1 - MeanAbsoluteDifference/255.
	MinScore float64 `yaml:"min_score"`
}

func DefaultTemplateParams() TemplateParams {
	return TemplateParams{
		SearchRadius: 16,
		MinScore:     0.8,
	}
}

// Template is a pure-Go Backend: it remembers the intensity patch of the
// tracked box and, on every frame, looks for the best matching (minimal
// sum of absolute differences) position within SearchRadius. On a match
// the patch is refreshed from the new position.
type Template struct {
	Params TemplateParams

	box      image.Rectangle
	template []uint8
	gray     *image.Gray
}

var _ Backend = (*Template)(nil)

func NewTemplate(params TemplateParams) *Template {
	return &Template{
		Params: params,
	}
}

func (t *Template) String() string {
	return fmt.Sprintf("Template(r:%d, min:%v)", t.Params.SearchRadius, t.Params.MinScore)
}

func (t *Template) Init(
	ctx context.Context,
	m *matrix.BGR,
	box image.Rectangle,
) (_err error) {
	logger.Tracef(ctx, "Init(%s, %v)", m, box)
	defer func() { logger.Tracef(ctx, "/Init(%s, %v): %v", m, box, _err) }()

	if box.Empty() {
		return fmt.Errorf("empty box %v", box)
	}
	if !box.In(m.Bounds()) {
		return fmt.Errorf("box %v is out of the frame %v", box, m.Bounds())
	}

	t.gray = m.ToGray(t.gray)
	t.box = box
	t.template = t.capture(t.template, box)
	return nil
}

func (t *Template) Update(
	ctx context.Context,
	m *matrix.BGR,
) (_ret image.Rectangle, _ok bool) {
	logger.Tracef(ctx, "Update(%s)", m)
	defer func() { logger.Tracef(ctx, "/Update(%s): %v %v", m, _ret, _ok) }()

	if t.template == nil {
		return image.Rectangle{}, false
	}
	bounds := m.Bounds()
	if !t.box.In(bounds) {
		return t.box, false
	}
	t.gray = m.ToGray(t.gray)

	w, h := t.box.Dx(), t.box.Dy()
	r := t.Params.SearchRadius
	bestSAD := uint64(math.MaxUint64)
	bestDist := math.MaxInt
	var best image.Point
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			candidate := t.box.Add(image.Pt(dx, dy))
			if !candidate.In(bounds) {
				continue
			}
			dist := abs(dx) + abs(dy)
			sad, complete := t.sad(candidate.Min, w, h, bestSAD)
			if !complete {
				continue
			}
			if sad < bestSAD || (sad == bestSAD && dist < bestDist) {
				bestSAD, bestDist, best = sad, dist, candidate.Min
			}
		}
	}
	if bestSAD == math.MaxUint64 {
		return t.box, false
	}

	score := 1 - float64(bestSAD)/float64(255*w*h)
	if score < t.Params.MinScore {
		logger.Debugf(ctx, "best match at %v has score %.3f < %.3f", best, score, t.Params.MinScore)
		return t.box, false
	}

	t.box = image.Rectangle{Min: best, Max: best.Add(image.Pt(w, h))}
	t.template = t.capture(t.template, t.box)
	return t.box, true
}

func (t *Template) Close() error {
	t.template = nil
	t.gray = nil
	return nil
}

func (t *Template) capture(dst []uint8, box image.Rectangle) []uint8 {
	w, h := box.Dx(), box.Dy()
	if cap(dst) < w*h {
		dst = make([]uint8, w*h)
	}
	dst = dst[:w*h]
	for y := 0; y < h; y++ {
		off := (box.Min.Y+y)*t.gray.Stride + box.Min.X
		copy(dst[y*w:(y+1)*w], t.gray.Pix[off:off+w])
	}
	return dst
}

// sad computes the sum of absolute differences between the template and
// the patch at pt; it gives up (complete == false) once the sum exceeds limit.
func (t *Template) sad(pt image.Point, w, h int, limit uint64) (_ uint64, complete bool) {
	var sum uint64
	for y := 0; y < h; y++ {
		off := (pt.Y+y)*t.gray.Stride + pt.X
		row := t.gray.Pix[off : off+w]
		tpl := t.template[y*w : (y+1)*w]
		for x, v := range row {
			d := int(v) - int(tpl[x])
			if d < 0 {
				d = -d
			}
			sum += uint64(d)
		}
		if sum > limit {
			return sum, false
		}
	}
	return sum, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
