package soundfont

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestName_KnownProgram(t *testing.T) {
	require.Equal(t, "Acoustic Grand Piano", Name(ProgAcousticGrandPiano))
}

func TestName_UnknownProgramFallsBackToGMCode(t *testing.T) {
	require.Equal(t, "GM999", Name(Program(999)))
}

func TestByName_RoundTripsWithName(t *testing.T) {
	p := ByName("Electric Guitar (clean)")
	require.Equal(t, ProgElectricGuitarClean, p)
	require.Equal(t, "Electric Guitar (clean)", Name(p))
}

func TestByName_UnknownNameReturnsNegativeOne(t *testing.T) {
	require.Equal(t, Program(-1), ByName("Theremin Deluxe"))
}
