// event.go defines the out-of-band notifications travelling along the data path.

// Package event defines the non-data notifications a pipeline stage receives
// from upstream and forwards downstream.
package event

import (
	"fmt"

	"github.com/xaionaro-go/edgetracker/format"
)

type Type int

const (
	TypeUndefined = Type(iota)
	TypeCaps
	TypeEOS
	TypeFlushStart
	TypeFlushStop
	TypeCustom
	EndOfType
)

func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "<undefined>"
	case TypeCaps:
		return "caps"
	case TypeEOS:
		return "eos"
	case TypeFlushStart:
		return "flush-start"
	case TypeFlushStop:
		return "flush-stop"
	case TypeCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown_event_type_%d", int(t))
	}
}

type Event interface {
	fmt.Stringer
	Type() Type
}

// Caps announces the format of the buffers that follow it.
type Caps struct {
	Structure format.Structure
}

var _ Event = (*Caps)(nil)

func (*Caps) Type() Type { return TypeCaps }
func (e *Caps) String() string {
	return fmt.Sprintf("caps(%s)", e.Structure.String())
}

// EOS means no more buffers will follow.
type EOS struct{}

var _ Event = (*EOS)(nil)

func (*EOS) Type() Type     { return TypeEOS }
func (*EOS) String() string { return "eos" }

type FlushStart struct{}

var _ Event = (*FlushStart)(nil)

func (*FlushStart) Type() Type     { return TypeFlushStart }
func (*FlushStart) String() string { return "flush-start" }

type FlushStop struct {
	ResetTime bool
}

var _ Event = (*FlushStop)(nil)

func (*FlushStop) Type() Type { return TypeFlushStop }
func (e *FlushStop) String() string {
	return fmt.Sprintf("flush-stop(reset:%v)", e.ResetTime)
}

// Custom is an application-defined event, forwarded untouched.
type Custom struct {
	Structure format.Structure
}

var _ Event = (*Custom)(nil)

func (*Custom) Type() Type { return TypeCustom }
func (e *Custom) String() string {
	return fmt.Sprintf("custom(%s)", e.Structure.String())
}
