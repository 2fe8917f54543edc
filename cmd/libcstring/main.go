// Command libcstring is built with -buildmode=c-shared and exposes the C
// string provider to C callers:
//
//	char *CreateString(void);
//	void PrintString(char *str);
//	void DestroyString(char *str);
//
// Every string returned by CreateString must be passed to DestroyString
// exactly once, after the last PrintString.
package main

// #include <stdlib.h>
import "C"

import (
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/imgk/caddy-cstring/cstring"
)

var provider = cstring.NewProvider(
	cstring.WithLogger(zap.Must(zap.NewDevelopment())),
	cstring.WithOutput(os.Stdout),
	cstring.WithDebug(debug),
)

//export CreateString
func CreateString() *C.char {
	return (*C.char)(provider.Create().Pointer())
}

//export PrintString
func PrintString(str *C.char) {
	provider.Use(cstring.FromPointer(unsafe.Pointer(str)))
}

//export DestroyString
func DestroyString(str *C.char) {
	provider.Destroy(cstring.FromPointer(unsafe.Pointer(str)))
}

func goString(str *C.char) string {
	return C.GoString(str)
}

func main() {}
