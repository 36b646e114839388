// Command isamutator is the AFL++ custom-mutator shared object: the host
// ABI adapter (component J). It is built with `go build -buildmode=c-shared`
// and loaded by AFL++ via AFL_CUSTOM_MUTATOR_LIBRARY, grounded on
// original_source/afl/isa_mutator/src/AFLInterface.cpp.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/robin3773/isa-mutator/internal/mutate"
	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"github.com/robin3773/isa-mutator/internal/session"
)

//export afl_custom_init
func afl_custom_init(_ unsafe.Pointer) C.int {
	s, err := session.Init()
	if err != nil {
		mutatorerr.Fatal(err)
		return -1
	}
	fmt.Fprintf(os.Stderr, "[mutator] custom mutator initialized. session=%s pid=%d\n", s.ID, os.Getpid())
	return 0
}

//export afl_custom_deinit
func afl_custom_deinit() {
	fmt.Fprintln(os.Stderr, "[mutator] deinit")
	session.Close()
}

//export afl_custom_fuzz
func afl_custom_fuzz(_ unsafe.Pointer, buf *C.uchar, bufSize C.size_t, outBuf **C.uchar, maxSize C.size_t) C.size_t {
	s := session.Get()
	if s == nil {
		return 0
	}

	n := int(bufSize)
	max := int(maxSize)

	in := cBytesToSlice(buf, n)

	// mutate.Stream always writes at least 1 byte (Property 5), even when
	// max==0, so the backing buffer needs at least 1 byte of headroom
	// regardless of what the host passed as maxSize.
	bufLen := max
	if bufLen < 1 {
		bufLen = 1
	}
	if cap(s.Out) < bufLen {
		s.Out = make([]byte, bufLen)
	}
	out := s.Out[:bufLen]

	written := mutate.Stream(in, out, max, s.ISA, s.Config, s.PRNG, s.Log, s.Feedback)
	s.OutLen = written

	*outBuf = (*C.uchar)(unsafe.Pointer(&out[0]))
	return C.size_t(written)
}

//export afl_custom_havoc_mutation
func afl_custom_havoc_mutation(afl unsafe.Pointer, buf *C.uchar, bufSize C.size_t, outBuf **C.uchar, maxSize C.size_t) C.size_t {
	return afl_custom_fuzz(afl, buf, bufSize, outBuf, maxSize)
}

// cBytesToSlice views a C buffer as a Go byte slice without copying. The
// slice is only valid for the duration of the current call, matching the
// host's borrowed-buffer contract (spec.md §5 "Shared resources").
func cBytesToSlice(buf *C.uchar, n int) []byte {
	if buf == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(buf)), n)
}

func main() {}
