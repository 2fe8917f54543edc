// Package memory allocates byte buffers outside the reach of the Go garbage
// collector. Every buffer returned by Alloc must be released with Free
// exactly once.
package memory

import "errors"

// ErrOutOfMemory is the panic value when an allocation cannot be satisfied.
var ErrOutOfMemory = errors.New("memory: out of memory")

// PoisonByte fills buffers that are about to be freed.
const PoisonByte = 0xDD

// Poison overwrites b with PoisonByte.
func Poison(b []byte) {
	for i := range b {
		b[i] = PoisonByte
	}
}
