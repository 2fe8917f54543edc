//go:build cstring_debug

package main

// Built with -tags cstring_debug, the library panics on destroyed and
// foreign strings instead of touching freed memory.
const debug = true
