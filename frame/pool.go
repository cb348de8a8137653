package frame

import (
	"fmt"

	"github.com/xaionaro-go/edgetracker/pool"
)

type storage struct {
	Data []byte
}

// Pool recycles frame-sized byte slices for the buffers constructed by the filter.
//
// All slices in a Pool have the same length; a renegotiated frame geometry
// requires a new Pool.
type Pool struct {
	FrameSize int
	pool      *pool.Pool[storage]
}

func NewPool(frameSize int) *Pool {
	return &Pool{
		FrameSize: frameSize,
		pool: pool.NewPool[storage](
			func() *storage {
				return &storage{Data: make([]byte, frameSize)}
			},
			nil,
			nil,
		),
	}
}

func (p *Pool) String() string {
	return fmt.Sprintf("FramePool(%d)", p.FrameSize)
}

// Get returns a slice of exactly FrameSize bytes. The content is undefined.
func (p *Pool) Get() []byte {
	return p.pool.Get().Data
}

// Put returns the slice to the pool. Slices of a foreign size are dropped.
func (p *Pool) Put(data []byte) {
	if len(data) != p.FrameSize {
		return
	}
	p.pool.Put(&storage{Data: data})
}

// NewBuffer wraps data (previously acquired with Get) into a Buffer which
// returns it to the pool once the last reference is dropped.
func (p *Pool) NewBuffer(data []byte) *Buffer {
	mem := NewBytesMemory(data)
	mem.ReleaseFunc = p.Put
	return NewBufferFromMemory(mem)
}
