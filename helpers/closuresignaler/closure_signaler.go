// closure_signaler.go provides a one-shot "closed" signal shared between a
// component and the ones waiting for it to stop.

// Package closuresignaler provides a one-shot closure signal.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/edgetracker/logger"
)

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

// CloseChan is closed once Close is called.
func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close signals the closure; it returns true only for the call
// that actually performed it.
func (c *ClosureSignaler) Close(ctx context.Context) (closed bool) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", closed) }()
	c.closeOnce.Do(func() {
		close(c.c)
		closed = true
	})
	return
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
