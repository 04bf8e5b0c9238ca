// Package randseed derives seeds for pseudorandom generators.
package randseed

import (
	cr "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sot-tech/nacre/pkg/xorshift"
)

// ErrInvalidHexSeed returned by FromHex if provided string is not
// exactly 32 hexadecimal characters.
var ErrInvalidHexSeed = errors.New("seed must be 32 hexadecimal characters (128 bits)")

// GenSeed returns 64bit seed from crypto/rand source or
// from current time, if crypto random error occurred
func GenSeed() (seed int64) {
	r := make([]byte, 8)
	if _, err := cr.Read(r); err != nil {
		seed = time.Now().UnixNano()
	} else {
		seed = int64(binary.BigEndian.Uint64(r))
	}
	return
}

// Words returns two 64bit state words from crypto/rand source or,
// if crypto random error occurred, expanded from current time
// with xorshift.SplitMix64.
func Words() (s0, s1 uint64) {
	r := make([]byte, 16)
	if _, err := cr.Read(r); err != nil {
		var next uint64
		s0, next = xorshift.SplitMix64(uint64(time.Now().UnixNano()))
		s1, _ = xorshift.SplitMix64(next)
	} else {
		s0 = binary.BigEndian.Uint64(r[:8])
		s1 = binary.BigEndian.Uint64(r[8:])
	}
	return
}

// FromString derives two 64bit state words from arbitrary passphrase:
// the string is hashed with xxhash and the digest expanded with
// xorshift.SplitMix64. Same passphrase always yields same words.
func FromString(s string) (s0, s1 uint64) {
	var next uint64
	s0, next = xorshift.SplitMix64(xxhash.Sum64String(s))
	s1, _ = xorshift.SplitMix64(next)
	return
}

// FromHex decodes exactly 128bit (32 hexadecimal characters) seed
// into two big-endian state words.
func FromHex(s string) (s0, s1 uint64, err error) {
	if len(s) != hex.EncodedLen(16) {
		return 0, 0, ErrInvalidHexSeed
	}
	var raw []byte
	if raw, err = hex.DecodeString(s); err != nil {
		return 0, 0, ErrInvalidHexSeed
	}
	return binary.BigEndian.Uint64(raw[:8]), binary.BigEndian.Uint64(raw[8:]), nil
}
