//go:build !cstring_debug

package main

const debug = false
