package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyLegalMove(t *testing.T) {
	eng := NewStandardEngine()
	pos := eng.Initial()

	mv, err := eng.DecodeSAN(pos, "e4")
	require.NoError(t, err)

	next, err := eng.Apply(pos, mv)
	require.NoError(t, err)
	assert.NotEqual(t, pos.String(), next.String())
	// Applying is pure: the source position is untouched.
	assert.Equal(t, eng.Initial().String(), pos.String())
}

func TestApplyIllegalMove(t *testing.T) {
	eng := NewStandardEngine()
	pos := eng.Initial()

	e4, err := eng.DecodeSAN(pos, "e4")
	require.NoError(t, err)
	next, err := eng.Apply(pos, e4)
	require.NoError(t, err)

	// e2e4 is not available again once played.
	_, err = eng.Apply(next, e4)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestDecodeSANRejectsGarbage(t *testing.T) {
	eng := NewStandardEngine()
	_, err := eng.DecodeSAN(eng.Initial(), "Zz9")
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestSANRoundTrip(t *testing.T) {
	eng := NewStandardEngine()
	pos := eng.Initial()

	mv, err := eng.DecodeSAN(pos, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, "Nf3", eng.EncodeSAN(pos, mv))
}

func TestLegalMovesFromStart(t *testing.T) {
	eng := NewStandardEngine()
	assert.Len(t, eng.LegalMoves(eng.Initial()), 20)
}
