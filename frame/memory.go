package frame

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type MapFlags uint

const (
	MapRead = MapFlags(1 << iota)
	MapWrite
)

func (f MapFlags) String() string {
	var result []string
	if f&MapRead != 0 {
		result = append(result, "read")
	}
	if f&MapWrite != 0 {
		result = append(result, "write")
	}
	if len(result) == 0 {
		return "none"
	}
	return strings.Join(result, "|")
}

// Memory is the storage behind a Buffer.
type Memory interface {
	Map(MapFlags) ([]byte, error)
	Unmap()
	Size() int
}

// Releaser is implemented by memories which should be handed back
// to their owner once the last buffer reference is dropped.
type Releaser interface {
	Release()
}

type BytesMemory struct {
	Data        []byte
	ReadOnly    bool
	ReleaseFunc func([]byte)
	mapCount    atomic.Int32
}

var _ Memory = (*BytesMemory)(nil)
var _ Releaser = (*BytesMemory)(nil)

func NewBytesMemory(data []byte) *BytesMemory {
	return &BytesMemory{Data: data}
}

func (m *BytesMemory) Map(flags MapFlags) ([]byte, error) {
	if flags&MapWrite != 0 && m.ReadOnly {
		return nil, fmt.Errorf("the memory is read-only")
	}
	if m.Data == nil {
		return nil, fmt.Errorf("the memory was already released")
	}
	m.mapCount.Add(1)
	return m.Data, nil
}

func (m *BytesMemory) Unmap() {
	if m.mapCount.Add(-1) < 0 {
		panic("Unmap without Map")
	}
}

func (m *BytesMemory) Size() int {
	return len(m.Data)
}

// IsMapped returns true if there is an outstanding Map.
func (m *BytesMemory) IsMapped() bool {
	return m.mapCount.Load() > 0
}

func (m *BytesMemory) Release() {
	data := m.Data
	m.Data = nil
	if m.ReleaseFunc != nil && data != nil {
		m.ReleaseFunc(data)
	}
}
