package filter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/edgetracker/event"
	"github.com/xaionaro-go/edgetracker/format"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/matrix"
	"github.com/xaionaro-go/edgetracker/tracker"
	"github.com/xaionaro-go/edgetracker/types"
)

const (
	testWidth  = 320
	testHeight = 240
)

type capturePad struct {
	Buffers []*frame.Buffer
	Events  []event.Event
	Return  types.FlowReturn
}

var _ Pad = (*capturePad)(nil)

func (p *capturePad) Push(ctx context.Context, buf *frame.Buffer) types.FlowReturn {
	p.Buffers = append(p.Buffers, buf)
	return p.Return
}

func (p *capturePad) PushEvent(ctx context.Context, ev event.Event) bool {
	p.Events = append(p.Events, ev)
	return true
}

func (p *capturePad) Last() *frame.Buffer {
	if len(p.Buffers) == 0 {
		return nil
	}
	return p.Buffers[len(p.Buffers)-1]
}

type brokenMemory struct{ size int }

func (brokenMemory) Map(frame.MapFlags) ([]byte, error) { return nil, errors.New("device lost") }
func (brokenMemory) Unmap()                             {}
func (m brokenMemory) Size() int                        { return m.size }

func newTestFilter(t *testing.T) (*Filter, *capturePad) {
	ctx := context.Background()
	pad := &capturePad{}
	f, err := New(ctx, DefaultConfig(), pad)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, f.Close(ctx)) })
	return f, pad
}

func negotiate(t *testing.T, f *Filter, w, h int) {
	require.True(t, f.HandleEvent(context.Background(), &event.Caps{
		Structure: format.NewVideoStructure(w, h, format.PixelLayoutBGR),
	}))
}

// squareBuffer is a black frame with a white 20x20 square at offset.
func squareBuffer(w, h int, offset image.Point) *frame.Buffer {
	m := matrix.New(w, h)
	m.Fill(image.Rect(150, 110, 170, 130).Add(offset), color.RGBA{R: 255, G: 255, B: 255, A: 255})
	pix, _ := m.Detach()
	return frame.NewBuffer(pix)
}

func TestMetadataPropagation(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	in := squareBuffer(testWidth, testHeight, image.Point{})
	in.PTS, in.DTS, in.Duration, in.Offset = 1000, 900, 33, 42
	require.Equal(t, types.FlowOK, f.Chain(ctx, in))

	out := pad.Last()
	require.NotNil(t, out)
	require.NotSame(t, in, out)
	assert.Equal(t, types.ClockTime(1000), out.PTS)
	assert.Equal(t, types.ClockTime(900), out.DTS)
	assert.Equal(t, types.ClockTime(33), out.Duration)
	assert.Equal(t, uint64(42), out.Offset)
	assert.Equal(t, testWidth*testHeight*3, out.Size())
	out.Unref()
}

func TestInputIsNotModified(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	in := squareBuffer(testWidth, testHeight, image.Point{})
	data, err := in.Map(frame.MapRead)
	require.NoError(t, err)
	orig := append([]byte(nil), data...)
	in.Unmap()

	in.Ref()
	require.Equal(t, types.FlowOK, f.Chain(ctx, in))
	require.Equal(t, 1, in.RefCount())

	data, err = in.Map(frame.MapRead)
	require.NoError(t, err)
	require.Equal(t, orig, data)
	in.Unmap()
	in.Unref()
	pad.Last().Unref()
}

func TestBypass(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)
	f.SetEnabled(false)
	require.False(t, f.IsEnabled())

	in := squareBuffer(testWidth, testHeight, image.Point{})
	require.Equal(t, types.FlowOK, f.Chain(ctx, in))
	require.Same(t, in, pad.Last())
	require.Equal(t, tracker.StatusUninitialized, f.TrackerStatus(ctx))
	require.Equal(t, uint64(1), f.Stats().Bypassed.Count)

	// the switch is re-read on every buffer
	f.SetEnabled(true)
	in = squareBuffer(testWidth, testHeight, image.Point{})
	require.Equal(t, types.FlowOK, f.Chain(ctx, in))
	require.NotSame(t, in, pad.Last())
	require.Equal(t, tracker.StatusTracking, f.TrackerStatus(ctx))
}

func TestTenFrames(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)
	require.Equal(t, tracker.StatusUninitialized, f.TrackerStatus(ctx))

	initialBox := image.Rect(135, 95, 185, 145)
	step := image.Pt(3, 2)
	for i := 0; i < 10; i++ {
		require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(testWidth, testHeight, step.Mul(i))), "frame %d", i+1)
		require.Equal(t, tracker.StatusTracking, f.TrackerStatus(ctx), "frame %d", i+1)
		require.Equal(t, initialBox.Add(step.Mul(i)), f.TrackerBox(ctx), "frame %d", i+1)
	}

	require.Len(t, pad.Buffers, 10)
	for idx, out := range pad.Buffers {
		require.Equal(t, testWidth*testHeight*3, out.Size(), "frame %d", idx+1)
	}

	stats := f.Stats()
	require.Equal(t, uint64(10), stats.Received.Count)
	require.Equal(t, uint64(10), stats.Processed.Count)
	require.Zero(t, stats.TrackingFailures)
	require.NotZero(t, stats.ProcessingTimeLastFrame)
}

func TestOutputContent(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))
	out := pad.Last()
	data, err := out.Map(frame.MapRead)
	require.NoError(t, err)
	defer out.Unmap()
	m := matrix.FromBytes(data, testWidth, testHeight, nil)

	blue := color.RGBA{B: 255, A: 255}
	for _, pt := range []image.Point{{135, 95}, {184, 95}, {135, 144}, {184, 144}, {160, 95}, {135, 120}} {
		require.Equal(t, blue, m.RGBAAt(pt.X, pt.Y), "%v", pt)
	}

	// the original colors are gone: everything else is a gray edge map
	for _, pt := range []image.Point{{10, 10}, {160, 120}, {300, 200}} {
		require.Equal(t, color.RGBA{A: 255}, m.RGBAAt(pt.X, pt.Y), "%v", pt)
	}
	edges := 0
	for y := 100; y < 140; y++ {
		for x := 140; x < 180; x++ {
			c := m.RGBAAt(x, y)
			require.True(t, c.R == c.G && c.G == c.B, "(%d,%d): %v", x, y, c)
			if c.R == 255 {
				edges++
			}
		}
	}
	require.NotZero(t, edges)
}

func TestSizeMismatchPassthrough(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	in := frame.NewBuffer(make([]byte, testWidth*testHeight*3-1))
	require.Equal(t, types.FlowOK, f.Chain(ctx, in))
	require.Same(t, in, pad.Last())
	require.Equal(t, tracker.StatusUninitialized, f.TrackerStatus(ctx))
	require.Equal(t, uint64(1), f.Stats().PassedSizeMismatch.Count)
}

func TestFormatMissing(t *testing.T) {
	for name, width := range map[string]any{
		"missing":     nil,
		"non-numeric": "abc",
		"wrong-type":  3.5,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f, pad := newTestFilter(t)

			s := format.NewVideoStructure(testWidth, testHeight, format.PixelLayoutBGR)
			if width == nil {
				delete(s.Fields, format.FieldWidth)
			} else {
				s.Fields[format.FieldWidth] = width
			}
			caps := &event.Caps{Structure: s}
			require.True(t, f.HandleEvent(ctx, caps))
			require.Same(t, caps, pad.Events[0], "the event must be forwarded anyway")
			require.Equal(t, format.FrameFormat{}, f.Format(ctx))
			require.Equal(t, uint64(1), f.Stats().FormatMissing)

			in := squareBuffer(testWidth, testHeight, image.Point{})
			require.NotPanics(t, func() {
				require.Equal(t, types.FlowOK, f.Chain(ctx, in))
			})
			require.Same(t, in, pad.Last())
			require.Equal(t, uint64(1), f.Stats().PassedNotNegotiated.Count)
			require.Equal(t, tracker.StatusUninitialized, f.TrackerStatus(ctx))
		})
	}
}

func TestFormatMissingKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	s := format.NewStructure("video/x-raw")
	s.Fields[format.FieldHeight] = 100
	f.HandleEvent(ctx, &event.Caps{Structure: s})
	require.Equal(t, format.FrameFormat{Width: testWidth, Height: testHeight, Layout: format.PixelLayoutBGR}, f.Format(ctx))
}

func TestRenegotiation(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)
	require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))

	negotiate(t, f, 400, 300)
	require.Equal(t, 400, f.Format(ctx).Width)
	require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(400, 300, image.Point{})))
	require.Equal(t, 400*300*3, pad.Last().Size())
	require.Equal(t, uint64(2), f.Stats().Processed.Count)
}

func TestRenegotiationToSmallerFrame(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)
	require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))
	require.Equal(t, tracker.StatusTracking, f.TrackerStatus(ctx))

	negotiate(t, f, 100, 80)
	frameRect := image.Rect(0, 0, 100, 80)
	for i := 0; i < 3; i++ {
		require.Equal(t, types.FlowOK, f.Chain(ctx, frame.NewBuffer(make([]byte, 100*80*3))))
		box := f.TrackerBox(ctx)
		require.False(t, box.Empty(), "frame %d", i)
		require.True(t, box.In(frameRect), "frame %d: box %v is outside %v", i, box, frameRect)
	}
	require.Equal(t, uint64(4), f.Stats().Processed.Count)
}

func TestOversizedFormat(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	// width*height*3 wraps around to 12 without the dimension limit
	s := format.NewVideoStructure(4, 4, format.PixelLayoutBGR)
	s.Fields[format.FieldWidth] = int64(1<<62 + 1)
	require.True(t, f.HandleEvent(ctx, &event.Caps{Structure: s}))
	require.Equal(t, format.FrameFormat{Width: testWidth, Height: testHeight, Layout: format.PixelLayoutBGR}, f.Format(ctx))
	require.Equal(t, uint64(1), f.Stats().FormatMissing)

	in := frame.NewBuffer(make([]byte, 12))
	require.NotPanics(t, func() {
		require.Equal(t, types.FlowOK, f.Chain(ctx, in))
	})
	require.Same(t, in, pad.Last())
	require.Equal(t, uint64(1), f.Stats().PassedSizeMismatch.Count)
}

func TestMapFailure(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)
	negotiate(t, f, testWidth, testHeight)

	in := frame.NewBufferFromMemory(brokenMemory{size: testWidth * testHeight * 3})
	require.Equal(t, types.FlowError, f.Chain(ctx, in))
	require.Empty(t, pad.Buffers)
	require.Equal(t, uint64(1), f.Stats().MapFailures.Count)
	require.Equal(t, tracker.StatusUninitialized, f.TrackerStatus(ctx))
}

func TestDownstreamFlowReturn(t *testing.T) {
	ctx := context.Background()
	for _, ret := range []types.FlowReturn{types.FlowOK, types.FlowNotNegotiated, types.FlowError, types.FlowEOS} {
		t.Run(ret.String(), func(t *testing.T) {
			f, pad := newTestFilter(t)
			pad.Return = ret
			negotiate(t, f, testWidth, testHeight)
			require.Equal(t, ret, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))

			f.SetEnabled(false)
			require.Equal(t, ret, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))
		})
	}
}

func TestEventsForwarded(t *testing.T) {
	ctx := context.Background()
	f, pad := newTestFilter(t)

	custom := &event.Custom{Structure: format.NewStructure("application/x-custom")}
	evs := []event.Event{&event.FlushStart{}, &event.FlushStop{ResetTime: true}, custom, &event.EOS{}}
	for _, ev := range evs {
		require.True(t, f.HandleEvent(ctx, ev))
	}
	require.Equal(t, evs, pad.Events)
	require.Equal(t, format.FrameFormat{}, f.Format(ctx))
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	pad := &capturePad{}
	f, err := New(ctx, DefaultConfig(), pad)
	require.NoError(t, err)
	negotiate(t, f, testWidth, testHeight)

	require.NoError(t, f.Close(ctx))
	require.NoError(t, f.Close(ctx))
	require.True(t, f.IsClosed())

	require.Equal(t, types.FlowFlushing, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))
	require.False(t, f.HandleEvent(ctx, &event.EOS{}))
	require.Empty(t, pad.Buffers)
}

func TestNewValidation(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, DefaultConfig(), nil)
	require.Error(t, err)

	cfg := DefaultConfig()
	cfg.TrackerKind = tracker.KindUndefined
	_, err = New(ctx, cfg, &capturePad{})
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.EdgeDetect.ApertureSize = 5
	_, err = New(ctx, cfg, &capturePad{})
	require.Error(t, err)
}

func TestInitialBoxOverride(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.InitialBox = image.Rect(145, 95, 195, 145)
	f, err := New(ctx, cfg, &PadFuncs{})
	require.NoError(t, err)
	defer f.Close(ctx)
	negotiate(t, f, testWidth, testHeight)

	require.Equal(t, types.FlowOK, f.Chain(ctx, squareBuffer(testWidth, testHeight, image.Point{})))
	require.Equal(t, image.Rect(145, 95, 195, 145), f.TrackerBox(ctx))
}

func TestSilent(t *testing.T) {
	f, _ := newTestFilter(t)
	require.False(t, f.IsSilent())
	f.SetSilent(true)
	require.True(t, f.IsSilent())
}
