package memory

import (
	"testing"
	"unsafe"
)

func TestAlloc(t *testing.T) {
	for _, n := range []int{0, 1, 9, 1024} {
		b := Alloc(n)
		if len(b) != n {
			t.Errorf("alloc length error: got %v want %v", len(b), n)
		}
		for i := range b {
			b[i] = byte(i)
		}
		Free(unsafe.Pointer(unsafe.SliceData(b)))
	}
}

func TestPoison(t *testing.T) {
	b := Alloc(16)
	copy(b, "C string")
	Poison(b)
	for i, v := range b {
		if v != PoisonByte {
			t.Errorf("byte %v not poisoned: %#x", i, v)
		}
	}
	Free(unsafe.Pointer(&b[0]))
}
