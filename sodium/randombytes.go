package sodium

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/sot-tech/nacre/pkg/randseed"
	"github.com/sot-tech/nacre/pkg/xorshift"
)

// ImplName is the name reported by the seeded randombytes implementation.
const ImplName = "nacre xoroshiro128**"

var (
	implName = C.CString(ImplName)

	// gen backs the callbacks installed into libsodium. The callbacks may
	// be entered from any thread the library runs on, so every draw takes
	// the lock. State before the first re-seed does not matter, it is set
	// the same way as an unseeded generator would be.
	genMu sync.Mutex
	gen   = xorshift.NewSource(randseed.Words())
)

func reseed(s0, s1 uint64) {
	genMu.Lock()
	gen.Seed(s0, s1)
	genMu.Unlock()
}

//export nacreRandombytesName
func nacreRandombytesName() *C.char {
	return implName
}

//export nacreRandombytesRandom
func nacreRandombytesRandom() C.uint32_t {
	genMu.Lock()
	v := gen.Uint32()
	genMu.Unlock()
	return C.uint32_t(v)
}

//export nacreRandombytesBuf
func nacreRandombytesBuf(buf unsafe.Pointer, size C.size_t) {
	if buf == nil || size == 0 {
		return
	}
	b := unsafe.Slice((*byte)(buf), int(size))
	genMu.Lock()
	gen.Fill(b)
	genMu.Unlock()
}
