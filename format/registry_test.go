package format

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("first-negotiation", func(t *testing.T) {
		r := NewRegistry()
		require.False(t, r.Get(ctx).IsValid())

		f, err := r.Update(ctx, NewVideoStructure(320, 240, PixelLayoutBGR))
		require.NoError(t, err)
		require.Equal(t, FrameFormat{Width: 320, Height: 240, Layout: PixelLayoutBGR}, f)
		require.Equal(t, f, r.Get(ctx))
		require.Equal(t, 320*240*3, f.FrameSize())
	})

	t.Run("renegotiation-overwrites", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Update(ctx, NewVideoStructure(320, 240, PixelLayoutBGR))
		require.NoError(t, err)
		_, err = r.Update(ctx, NewVideoStructure(640, 480, PixelLayoutRGB))
		require.NoError(t, err)
		require.Equal(t, FrameFormat{Width: 640, Height: 480, Layout: PixelLayoutRGB}, r.Get(ctx))
	})

	t.Run("missing-width-on-first-occurrence", func(t *testing.T) {
		r := NewRegistry()
		s := NewVideoStructure(320, 240, PixelLayoutBGR)
		delete(s.Fields, FieldWidth)
		_, err := r.Update(ctx, s)
		var errMissing ErrFormatMissing
		require.True(t, errors.As(err, &errMissing), err)
		require.Equal(t, FieldWidth, errMissing.Field)
		require.Equal(t, FrameFormat{}, r.Get(ctx))
	})

	t.Run("non-numeric-height-keeps-previous", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Update(ctx, NewVideoStructure(320, 240, PixelLayoutBGR))
		require.NoError(t, err)

		s := NewVideoStructure(640, 480, PixelLayoutBGR)
		s.Fields[FieldHeight] = "tall"
		_, err = r.Update(ctx, s)
		var errMissing ErrFormatMissing
		require.True(t, errors.As(err, &errMissing), err)
		require.Equal(t, FieldHeight, errMissing.Field)
		require.Equal(t, FrameFormat{Width: 320, Height: 240, Layout: PixelLayoutBGR}, r.Get(ctx))
	})

	t.Run("unsupported-layout", func(t *testing.T) {
		r := NewRegistry()
		s := NewVideoStructure(320, 240, PixelLayoutBGR)
		s.Fields[FieldFormat] = "I420"
		_, err := r.Update(ctx, s)
		var errLayout ErrUnsupportedLayout
		require.True(t, errors.As(err, &errLayout), err)
		require.False(t, r.Get(ctx).IsValid())
	})

	t.Run("oversized-dimensions-keep-previous", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Update(ctx, NewVideoStructure(320, 240, PixelLayoutBGR))
		require.NoError(t, err)

		for _, tc := range []struct {
			field string
			value any
		}{
			{FieldWidth, int64(1<<62 + 1)},
			{FieldWidth, MaxDimension + 1},
			{FieldHeight, uint64(1 << 63)},
			{FieldHeight, "99999999999"},
		} {
			s := NewVideoStructure(4, 4, PixelLayoutBGR)
			s.Fields[tc.field] = tc.value
			f, err := r.Update(ctx, s)
			var errMissing ErrFormatMissing
			require.True(t, errors.As(err, &errMissing), "%s=%v: %v", tc.field, tc.value, err)
			require.Equal(t, tc.field, errMissing.Field)
			require.Equal(t, FrameFormat{Width: 320, Height: 240, Layout: PixelLayoutBGR}, f)
			require.Equal(t, f, r.Get(ctx))
		}
	})

	t.Run("max-dimension-is-accepted", func(t *testing.T) {
		r := NewRegistry()
		f, err := r.Update(ctx, NewVideoStructure(MaxDimension, 1, PixelLayoutBGR))
		require.NoError(t, err)
		require.True(t, f.IsValid())
		require.Equal(t, MaxDimension*3, f.FrameSize())
	})

	t.Run("no-layout-means-bgr", func(t *testing.T) {
		r := NewRegistry()
		s := NewVideoStructure(2, 2, PixelLayoutBGR)
		delete(s.Fields, FieldFormat)
		f, err := r.Update(ctx, s)
		require.NoError(t, err)
		require.Equal(t, PixelLayoutBGR, f.Layout)
	})
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		input          string
		expected       FrameFormat
		expectingError bool
	}{
		{"video/x-raw, format=BGR, width=320, height=240", FrameFormat{320, 240, PixelLayoutBGR}, false},
		{"video/x-raw, format=(string)RGB, width=(int)64, height=(int)48, framerate=30/1", FrameFormat{64, 48, PixelLayoutRGB}, false},
		{"video/x-raw,width=10,height=20", FrameFormat{10, 20, PixelLayoutBGR}, false},
		{"video/x-raw, width=abc, height=240", FrameFormat{}, true},
		{"video/x-raw, height=240", FrameFormat{}, true},
		{"video/x-raw, width=0, height=240", FrameFormat{}, true},
		{"video/x-raw, width=(int)abc, height=240", FrameFormat{}, true},
		{"video/x-raw, width", FrameFormat{}, true},
		{", width=1, height=1", FrameFormat{}, true},
	}

	for _, test := range tests {
		s, err := ParseStructure(test.input)
		if err == nil {
			var f FrameFormat
			f, err = FrameFormatFromStructure(s)
			if err == nil {
				assert.Equal(t, test.expected, f, test.input)
			}
		}
		if test.expectingError {
			assert.Error(t, err, test.input)
		} else {
			assert.NoError(t, err, test.input)
		}
	}
}

func TestStructureRoundTrip(t *testing.T) {
	s := NewVideoStructure(320, 240, PixelLayoutBGR)
	parsed, err := ParseStructure(s.String())
	require.NoError(t, err)
	require.Equal(t, s, parsed)
}

func TestStructureGetInt(t *testing.T) {
	s := NewStructure("video/x-raw")
	s.Fields["a"] = int32(5)
	s.Fields["b"] = uint16(6)
	s.Fields["c"] = " 7 "
	s.Fields["d"] = 1.5
	s.Fields["e"] = "x"
	s.Fields["f"] = uint64(1 << 63)

	for key, expected := range map[string]int{"a": 5, "b": 6, "c": 7} {
		v, ok := s.GetInt(key)
		require.True(t, ok, key)
		require.Equal(t, expected, v, key)
	}
	for _, key := range []string{"d", "e", "f", "missing"} {
		_, ok := s.GetInt(key)
		require.False(t, ok, key)
	}
}
