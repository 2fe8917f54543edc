//go:build !cgo

package memory

import (
	"fmt"
	"sync"
	"unsafe"

	memorygo "github.com/imgk/memory-go"
)

// buffers are pinned here until Free so that a handle made from the first
// byte stays valid even when no Go slice refers to it.
var pinned = struct {
	sync.Mutex
	m map[uintptr]block
}{m: make(map[uintptr]block)}

type block struct {
	buf  []byte
	free func()
}

// Alloc is ...
func Alloc(n int) []byte {
	ptr, b, err := memorygo.Alloc[byte](max(n, 1))
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrOutOfMemory, err))
	}
	pinned.Lock()
	pinned.m[uintptr(unsafe.Pointer(&b[0]))] = block{
		buf:  b,
		free: func() { memorygo.Free(ptr) },
	}
	pinned.Unlock()
	return b[:n]
}

// Free is ...
func Free(ptr unsafe.Pointer) {
	pinned.Lock()
	blk, ok := pinned.m[uintptr(ptr)]
	delete(pinned.m, uintptr(ptr))
	pinned.Unlock()
	if ok {
		blk.free()
	}
}
