// Package sodium initialises libsodium, optionally substituting a seeded
// deterministic generator for its default randombytes implementation.
// See https://doc.libsodium.org/advanced/custom_rng .
//
// Initialisation happens at most once per process and its outcome is
// sticky: repeated calls either all succeed or all return the same error.
// The substituted generator is the xoroshiro128** from pkg/xorshift, which
// is NOT cryptographically secure and exists only to produce repeatable
// sequences for tests and simulations.
package sodium

/*
#cgo LDFLAGS: -lsodium
#include <stdlib.h>
#include <sodium.h>

extern char *nacreRandombytesName(void);
extern uint32_t nacreRandombytesRandom(void);
extern void nacreRandombytesBuf(void *buf, size_t size);

static randombytes_implementation nacre_randombytes = {
	.implementation_name = (const char *(*)(void)) nacreRandombytesName,
	.random = nacreRandombytesRandom,
	.stir = NULL,
	.uniform = NULL,
	.buf = (void (*)(void * const, const size_t)) nacreRandombytesBuf,
	.close = NULL,
};

static int nacre_install_randombytes(void) {
	return randombytes_set_implementation(&nacre_randombytes);
}
*/
import "C"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"unsafe"
)

var (
	// ErrInitFailed returned if sodium_init reported unrecoverable failure.
	// The error is sticky: every subsequent initialisation attempt returns it.
	ErrInitFailed = errors.New("libsodium initialisation failed")

	// ErrAlreadyInitialized returned if libsodium has been initialised
	// elsewhere before the seeded generator could be installed. libsodium
	// itself is usable, but draws from its default (secure) implementation.
	ErrAlreadyInitialized = errors.New("libsodium already initialised, seeded generator not in effect")

	// ErrNotInitialized returned by random accessors until one of the
	// Init functions succeeded.
	ErrNotInitialized = errors.New("libsodium not initialised")

	initMu     sync.Mutex
	initDone   bool
	initSeeded bool
	initErr    error
)

// Init initialises libsodium with its default randombytes implementation.
// Returns nil if the library is already initialised, even when the seeded
// generator is in effect.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initDone {
		return initErr
	}
	initDone = true
	if C.sodium_init() < 0 {
		initErr = ErrInitFailed
	}
	return initErr
}

// InitWithSeed installs the seeded generator as libsodium's randombytes
// implementation and initialises the library. The 128-bit generator state
// is built from the two provided words.
//
// Safe to call multiple times from concurrent goroutines. After a
// successful first call every subsequent call re-seeds the generator and
// returns nil; otherwise the original error is returned again:
// ErrInitFailed if sodium_init failed, ErrAlreadyInitialized if libsodium
// had been initialised before the generator could be installed (e.g. by a
// plain Init or by foreign code linked into the same process).
func InitWithSeed(s0, s1 uint64) error {
	initMu.Lock()
	defer initMu.Unlock()
	if initDone {
		if initErr == nil && initSeeded {
			reseed(s0, s1)
			return nil
		}
		if initErr != nil {
			return initErr
		}
		return ErrAlreadyInitialized
	}
	initDone = true
	if C.nacre_install_randombytes() != 0 {
		// set_implementation only refuses after sodium_init already ran
		initErr = ErrAlreadyInitialized
		return initErr
	}
	reseed(s0, s1)
	switch rc := C.sodium_init(); {
	case rc == 0:
		initSeeded = true
		// sodium_init itself draws from the installed implementation,
		// reset the state so callers observe the sequence from the start
		reseed(s0, s1)
	case rc > 0:
		initErr = ErrAlreadyInitialized
	default:
		initErr = ErrInitFailed
	}
	return initErr
}

// InitWithReader acts as InitWithSeed with a 128-bit seed drawn
// from the provided reader.
func InitWithReader(r io.Reader) error {
	var seed [16]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return fmt.Errorf("unable to read seed: %w", err)
	}
	return InitWithSeed(binary.BigEndian.Uint64(seed[:8]), binary.BigEndian.Uint64(seed[8:]))
}

// Initialized reports whether libsodium has been successfully initialised.
func Initialized() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return initDone && initErr == nil
}

// Seeded reports whether the seeded generator is in effect.
func Seeded() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return initSeeded
}

// Version returns the version string of the linked libsodium.
func Version() string {
	return C.GoString(C.sodium_version_string())
}

// ImplementationName returns the name of the active randombytes
// implementation ("sysrandom" by default, ImplName if seeded).
func ImplementationName() string {
	return C.GoString(C.randombytes_implementation_name())
}

// Fill fills the provided slice from the active randombytes implementation.
func Fill(b []byte) error {
	if !Initialized() {
		return ErrNotInitialized
	}
	if len(b) > 0 {
		C.randombytes_buf(unsafe.Pointer(&b[0]), C.size_t(len(b)))
	}
	return nil
}

// RandomBytes returns n bytes from the active randombytes implementation.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := Fill(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Uint32 returns an unpredictable (or, if seeded, repeatable) 32-bit value.
func Uint32() (uint32, error) {
	if !Initialized() {
		return 0, ErrNotInitialized
	}
	return uint32(C.randombytes_random()), nil
}

// Uniform returns a value uniformly distributed in [0, bound).
// Uniform(0) returns 0.
func Uniform(bound uint32) (uint32, error) {
	if !Initialized() {
		return 0, ErrNotInitialized
	}
	return uint32(C.randombytes_uniform(C.uint32_t(bound))), nil
}
