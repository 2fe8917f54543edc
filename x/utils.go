package x

import "unsafe"

// ByteSliceToString is ...
func ByteSliceToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToByteSlice is ...
func StringToByteSlice(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Strlen returns the number of bytes before the first NUL at p.
func Strlen(p unsafe.Pointer) (n int) {
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return
}

// CBytes returns the bytes at p up to the NUL terminator. The slice aliases
// the memory at p and is only valid while that memory is.
func CBytes(p unsafe.Pointer) []byte {
	return unsafe.Slice((*byte)(p), Strlen(p))
}
