// registry.go implements the storage of the negotiated frame format.

// Package format provides format-negotiation descriptors and the registry
// of the currently negotiated frame format.
package format

import (
	"context"

	"github.com/xaionaro-go/edgetracker/logger"
	"github.com/xaionaro-go/xsync"
)

// Registry keeps the last successfully negotiated FrameFormat.
//
// It starts with the zero (invalid) format; every successful Update
// overwrites it, every failed Update leaves it untouched.
type Registry struct {
	locker xsync.RWMutex
	format FrameFormat
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Get(ctx context.Context) FrameFormat {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &r.locker, func() FrameFormat {
		return r.format
	})
}

// Update extracts the frame format from the descriptor and stores it.
func (r *Registry) Update(
	ctx context.Context,
	s Structure,
) (_ret FrameFormat, _err error) {
	logger.Tracef(ctx, "Update(%s)", s)
	defer func() { logger.Tracef(ctx, "/Update(%s): %s %v", s, _ret, _err) }()

	f, err := FrameFormatFromStructure(s)
	if err != nil {
		return r.Get(ctx), err
	}

	return xsync.DoR2(ctx, &r.locker, func() (FrameFormat, error) {
		if r.format != f {
			logger.Debugf(ctx, "frame format changed: %s -> %s", r.format, f)
		}
		r.format = f
		return f, nil
	})
}

// FrameFormatFromStructure extracts width, height and pixel layout.
// A missing layout means BGR. Dimensions above MaxDimension are rejected.
func FrameFormatFromStructure(s Structure) (FrameFormat, error) {
	width, ok := s.GetInt(FieldWidth)
	if !ok || width <= 0 || width > MaxDimension {
		return FrameFormat{}, ErrFormatMissing{Field: FieldWidth, Value: s.Fields[FieldWidth]}
	}
	height, ok := s.GetInt(FieldHeight)
	if !ok || height <= 0 || height > MaxDimension {
		return FrameFormat{}, ErrFormatMissing{Field: FieldHeight, Value: s.Fields[FieldHeight]}
	}

	layout := PixelLayoutBGR
	if layoutString, ok := s.GetString(FieldFormat); ok {
		var err error
		layout, err = ParsePixelLayout(layoutString)
		if err != nil {
			return FrameFormat{}, ErrUnsupportedLayout{Layout: layoutString, Err: err}
		}
	}

	return FrameFormat{
		Width:  width,
		Height: height,
		Layout: layout,
	}, nil
}
