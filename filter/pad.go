package filter

import (
	"context"

	"github.com/xaionaro-go/edgetracker/event"
	"github.com/xaionaro-go/edgetracker/frame"
	"github.com/xaionaro-go/edgetracker/types"
)

// Pad is the downstream consumer of a Filter.
//
// Push takes over the reference to the buffer.
type Pad interface {
	Push(ctx context.Context, buf *frame.Buffer) types.FlowReturn
	PushEvent(ctx context.Context, ev event.Event) bool
}

// PadFuncs adapts plain functions to Pad; nil functions accept everything.
type PadFuncs struct {
	PushFunc      func(ctx context.Context, buf *frame.Buffer) types.FlowReturn
	PushEventFunc func(ctx context.Context, ev event.Event) bool
}

var _ Pad = (*PadFuncs)(nil)

func (p *PadFuncs) Push(ctx context.Context, buf *frame.Buffer) types.FlowReturn {
	if p.PushFunc == nil {
		buf.Unref()
		return types.FlowOK
	}
	return p.PushFunc(ctx, buf)
}

func (p *PadFuncs) PushEvent(ctx context.Context, ev event.Event) bool {
	if p.PushEventFunc == nil {
		return true
	}
	return p.PushEventFunc(ctx, ev)
}
