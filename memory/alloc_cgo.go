//go:build cgo

package memory

// #include <stdlib.h>
import "C"

import "unsafe"

// Alloc returns n bytes of C heap memory. C code may hold on to the buffer
// across calls.
func Alloc(n int) []byte {
	ptr := C.malloc(C.size_t(max(n, 1)))
	if ptr == nil {
		panic(ErrOutOfMemory)
	}
	return unsafe.Slice((*byte)(ptr), n)
}

// Free releases a buffer returned by Alloc. ptr is the address of its first byte.
func Free(ptr unsafe.Pointer) {
	C.free(ptr)
}
