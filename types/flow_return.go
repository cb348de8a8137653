// flow_return.go defines the status codes returned by a downstream push.

// Package types provides common types shared by the edgetracker packages.
package types

import (
	"fmt"
)

// FlowReturn is the status of delivering a buffer downstream.
//
// The filter never invents a FlowReturn of its own except FlowError on a
// buffer that cannot be read; everything else is the downstream's verdict.
type FlowReturn int

const (
	FlowOK = FlowReturn(iota)
	FlowEOS
	FlowFlushing
	FlowNotNegotiated
	FlowError
)

func (r FlowReturn) String() string {
	switch r {
	case FlowOK:
		return "ok"
	case FlowEOS:
		return "eos"
	case FlowFlushing:
		return "flushing"
	case FlowNotNegotiated:
		return "not-negotiated"
	case FlowError:
		return "error"
	default:
		return fmt.Sprintf("unknown_flow_return_%d", int(r))
	}
}

// IsSuccess returns true if the downstream accepted the buffer.
func (r FlowReturn) IsSuccess() bool {
	return r == FlowOK
}
