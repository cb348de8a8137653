package types

import (
	"fmt"
	"unsafe"
)

// ObjectID identifies an element instance in log messages.
type ObjectID uint64

type GetObjectIDer interface {
	GetObjectID() ObjectID
}

func GetObjectID[T any](obj *T) ObjectID {
	if obj == nil {
		return ObjectID(0)
	}
	ptr := uintptr(unsafe.Pointer(obj))
	if uintptr(uint64(ptr)) != ptr {
		panic("pointer value does not fit into uint64")
	}
	return ObjectID(uint64(ptr))
}

func (id ObjectID) String() string {
	return fmt.Sprintf("0x%x", uint64(id))
}
