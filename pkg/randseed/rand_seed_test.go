package randseed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	s0, s1 := Words()
	n0, n1 := Words()
	require.False(t, s0 == n0 && s1 == n1, "subsequent seeds should differ")
}

func TestFromString(t *testing.T) {
	s0, s1 := FromString("alice")
	n0, n1 := FromString("alice")
	require.Equal(t, s0, n0)
	require.Equal(t, s1, n1)

	o0, o1 := FromString("bob")
	require.False(t, s0 == o0 && s1 == o1, "different passphrases should yield different words")
}

func TestFromHex(t *testing.T) {
	s0, s1, err := FromHex("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	require.Equal(t, uint64(0x0001020304050607), s0)
	require.Equal(t, uint64(0x08090a0b0c0d0e0f), s1)

	for _, bad := range []string{"", "00", "000102030405060708090a0b0c0d0e", "zz0102030405060708090a0b0c0d0e0f"} {
		_, _, err = FromHex(bad)
		require.ErrorIs(t, err, ErrInvalidHexSeed, "input %q", bad)
	}
}
