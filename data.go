package vkx

import (
	"unsafe"
)

// Int32Slice is host integer data destined for a storage buffer.
type Int32Slice []int32

func (s Int32Slice) Bytes() []byte {
	size := len(s) * int(unsafe.Sizeof(int32(1)))
	return ToBytes(unsafe.Pointer(&s[0]), size)
}

// Int32SliceFromBytes reinterprets mapped memory as int32 values without
// copying. The returned slice aliases b and is only valid while the memory
// stays mapped.
func Int32SliceFromBytes(b []byte) Int32Slice {
	const m = 0x7fffffff
	return (*[m / 4]int32)(unsafe.Pointer(&b[0]))[: len(b)/4 : len(b)/4]
}

// Float32Slice is host float data destined for a vertex or storage buffer.
type Float32Slice []float32

func (s Float32Slice) Bytes() []byte {
	size := len(s) * int(unsafe.Sizeof(float32(1)))
	return ToBytes(unsafe.Pointer(&s[0]), size)
}
