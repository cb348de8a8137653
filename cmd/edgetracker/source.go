package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/xaionaro-go/edgetracker/config"
	"github.com/xaionaro-go/edgetracker/event"
	"github.com/xaionaro-go/edgetracker/filter"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/edgetracker/matrix"
	"github.com/xaionaro-go/edgetracker/types"
)

// movingSquareSource produces frames of a white square bouncing over a
// dark-gray background.
type movingSquareSource struct {
	Config config.SourceConfig
	Pool   *frame.Pool
}

func newMovingSquareSource(cfg config.SourceConfig) *movingSquareSource {
	return &movingSquareSource{
		Config: cfg,
		Pool:   frame.NewPool(format.FrameFormat{Width: cfg.Width, Height: cfg.Height, Layout: format.PixelLayoutBGR}.FrameSize()),
	}
}

func (s *movingSquareSource) String() string {
	return fmt.Sprintf("MovingSquare(%dx%d@%v)", s.Config.Width, s.Config.Height, s.Config.FrameRate)
}

func (s *movingSquareSource) frameDuration() time.Duration {
	return time.Duration(float64(time.Second) / s.Config.FrameRate)
}

// Frame renders the frame number idx.
func (s *movingSquareSource) Frame(idx int) *frame.Buffer {
	cfg := s.Config
	pix := s.Pool.Get()
	m := matrix.FromBytes(pix, cfg.Width, cfg.Height, nil)
	m.Fill(m.Bounds(), color.RGBA{R: 32, G: 32, B: 32, A: 255})

	size := min(cfg.SquareSize, cfg.Width, cfg.Height)
	pos := image.Pt(
		bounce(cfg.Width/2-size/2+idx*cfg.Speed, cfg.Width-size),
		bounce(cfg.Height/2-size/2+idx*cfg.Speed/2, cfg.Height-size),
	)
	m.Fill(image.Rectangle{Min: pos, Max: pos.Add(image.Pt(size, size))}, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	buf := s.Pool.NewBuffer(pix)
	dur := s.frameDuration()
	buf.PTS = types.ClockTimeFromDuration(time.Duration(idx) * dur)
	buf.DTS = buf.PTS
	buf.Duration = types.ClockTimeFromDuration(dur)
	buf.Offset = uint64(idx)
	return buf
}

// Serve announces the format and pushes the configured amount of frames
// (infinitely if it is not positive), then signals the end of stream.
func (s *movingSquareSource) Serve(
	ctx context.Context,
	f *filter.Filter,
) (_err error) {
	logger.Debugf(ctx, "Serve")
	defer func() { logger.Debugf(ctx, "/Serve: %v", _err) }()

	caps, err := s.Config.Structure()
	if err != nil {
		return err
	}
	if !f.HandleEvent(ctx, &event.Caps{Structure: caps}) {
		return fmt.Errorf("the caps %s were not accepted", caps)
	}

	var pace <-chan time.Time
	if s.Config.Pace > 0 {
		t := time.NewTicker(s.Config.Pace)
		defer t.Stop()
		pace = t.C
	}

	for idx := 0; s.Config.Frames <= 0 || idx < s.Config.Frames; idx++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		ret := f.Chain(ctx, s.Frame(idx))
		if !ret.IsSuccess() {
			return fmt.Errorf("frame #%d was not accepted: %s", idx, ret)
		}
	}

	f.HandleEvent(ctx, &event.EOS{})
	return nil
}

// bounce folds a linear coordinate into [0, limit] as if it
// bounced off both ends.
func bounce(v, limit int) int {
	if limit <= 0 {
		return 0
	}
	period := 2 * limit
	v %= period
	if v < 0 {
		v += period
	}
	if v > limit {
		v = period - v
	}
	return v
}
