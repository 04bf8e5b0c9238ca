// Package xorshift contains functions for fast generating
// predictable pseudorandom numbers
// See https://prng.di.unimi.it .
package xorshift

import "encoding/binary"

// XoRoShiRo128SS calculates predictable pseudorandom number
// with XOR/rotate/shift/rotate 128** (xoroshiro128starstar) algorithm.
// In some cases a little faster than XorShift64S, but uses 128 bits footprint.
// see https://prng.di.unimi.it/xoroshiro128starstar.c
func XoRoShiRo128SS(s0, s1 uint64) (uint64, uint64, uint64) {
	r := s0 * 5
	r = ((r << 7) | (r >> 57)) * 9 // rotl(s0*5, 7) * 9
	s1 ^= s0
	s0 = ((s0 << 24) | (s0 >> 40)) ^ s1 ^ (s1 << 16) // rotl(s0, 24) ^ s1 ^ (s1 << 16)
	s1 = (s1 << 37) | (s1 >> 27)                     // rotl(s1, 37)
	return r, s0, s1
}

// XorShift64S calculates predictable pseudorandom number
// with XOR/Shift 64* (shorshift64*) algorithm.
// see https://vigna.di.unimi.it/ftp/papers/xorshift.pdf
func XorShift64S(s uint64) (uint64, uint64) {
	s ^= s >> 12
	s ^= s << 25
	s ^= s >> 27
	return s * uint64(0x2545F4914F6CDD1D), s
}

// SplitMix64 advances splitmix64 state and calculates next pseudorandom
// number. Used to expand small or low-entropy seeds into xoroshiro state
// words, as recommended by the xoroshiro authors.
// see https://prng.di.unimi.it/splitmix64.c
func SplitMix64(s uint64) (uint64, uint64) {
	s += 0x9E3779B97F4A7C15
	z := s
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31), s
}

// Source is a stateful xoroshiro128** generator.
// It is NOT safe for concurrent use and NOT cryptographically secure,
// it exists to produce repeatable sequences from a known seed.
type Source struct {
	s0, s1 uint64
}

// NewSource constructs a Source from two raw state words.
// An all-zero state is degenerate for the xoroshiro family, so it is
// expanded with SplitMix64 the same way NewSourceFromSingle does.
func NewSource(s0, s1 uint64) *Source {
	s := new(Source)
	s.Seed(s0, s1)
	return s
}

// NewSourceFromSingle constructs a Source expanding a single 64-bit
// seed into 128 bits of state with SplitMix64.
func NewSourceFromSingle(seed uint64) *Source {
	s0, next := SplitMix64(seed)
	s1, _ := SplitMix64(next)
	return NewSource(s0, s1)
}

// Seed resets the Source state to the provided words.
func (s *Source) Seed(s0, s1 uint64) {
	if s0 == 0 && s1 == 0 {
		s0, s1 = SplitMix64(0)
		s1, _ = SplitMix64(s1)
	}
	s.s0, s.s1 = s0, s1
}

// State returns current state words.
func (s *Source) State() (uint64, uint64) {
	return s.s0, s.s1
}

// Uint64 advances the Source and returns next pseudorandom number.
func (s *Source) Uint64() (v uint64) {
	v, s.s0, s.s1 = XoRoShiRo128SS(s.s0, s.s1)
	return
}

// Uint32 advances the Source and returns next pseudorandom number
// truncated to 32 bits.
func (s *Source) Uint32() uint32 {
	return uint32(s.Uint64())
}

// Intn advances the Source and returns next pseudorandom number
// within [0, n). Panics if n is not positive.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("xorshift: Intn called with non-positive bound")
	}
	return int(s.Uint64() % uint64(n))
}

// Fill completely fills provided slice with pseudorandom data,
// 8 bytes (little-endian) per generator step.
func (s *Source) Fill(b []byte) {
	var w [8]byte
	for len(b) > 0 {
		binary.LittleEndian.PutUint64(w[:], s.Uint64())
		n := copy(b, w[:])
		b = b[n:]
	}
}
