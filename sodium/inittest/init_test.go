// Package inittest checks initialisation ordering of the sodium package.
// Its tests run in their own binary, so, unlike the tests alongside the
// package, they observe the process before any initialisation happened.
package inittest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sot-tech/nacre/sodium"
)

// Initialisation state is process-global, so the checks run as one test
// to keep their ordering explicit.
func TestInitOrder(t *testing.T) {
	require.False(t, sodium.Initialized())
	require.False(t, sodium.Seeded())

	// random accessors must refuse to work until initialised
	require.ErrorIs(t, sodium.Fill(make([]byte, 8)), sodium.ErrNotInitialized)
	_, err := sodium.RandomBytes(8)
	require.ErrorIs(t, err, sodium.ErrNotInitialized)
	_, err = sodium.Uint32()
	require.ErrorIs(t, err, sodium.ErrNotInitialized)
	_, err = sodium.Uniform(10)
	require.ErrorIs(t, err, sodium.ErrNotInitialized)

	require.NoError(t, sodium.Init())
	require.True(t, sodium.Initialized())
	require.False(t, sodium.Seeded())

	// too late to install the seeded generator, and the outcome is sticky
	require.ErrorIs(t, sodium.InitWithSeed(1, 2), sodium.ErrAlreadyInitialized)
	require.ErrorIs(t, sodium.InitWithSeed(3, 4), sodium.ErrAlreadyInitialized)
	require.False(t, sodium.Seeded())

	// libsodium itself stays usable with its default implementation
	require.NoError(t, sodium.Fill(make([]byte, 8)))
	require.NotEqual(t, sodium.ImplName, sodium.ImplementationName())
}
