package cram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// identityMatrix packs rank order 0,1,2,3 -> others[0..3] for every row,
// i.e. each row's rank codes are exactly "others" in their natural
// order (A's others are C,G,T,N; so code 0 for ref A means alt C).
func identityMatrixBytes() []byte {
	// rank bits: 00 01 10 11 -> packs to 0b00011011 = 0x1B for every row.
	return []byte{0x1B, 0x1B, 0x1B, 0x1B, 0x1B}
}

func TestSubstitutionMatrixRoundTrip(t *testing.T) {
	sm, err := readSubstitutionMatrix(itf8.NewCursor(identityMatrixBytes()))
	require.NoError(t, err)

	alt, err := sm.Base('A', 0)
	require.NoError(t, err)
	assert.Equal(t, byte('C'), alt)

	code, err := sm.Code('A', 'C')
	require.NoError(t, err)
	assert.EqualValues(t, 0, code)

	alt, err = sm.Base('T', 3)
	require.NoError(t, err)
	assert.Equal(t, byte('N'), alt) // T's others are A,C,G,N; rank 3 -> N
}

func TestSubstitutionMatrixSelfSubstitutionRejected(t *testing.T) {
	sm, err := readSubstitutionMatrix(itf8.NewCursor(identityMatrixBytes()))
	require.NoError(t, err)
	_, err = sm.Code('A', 'A')
	require.Error(t, err)
	assert.Equal(t, KindMalformedRecord, KindOf(err))
}

func TestSubstitutionMatrixTruncated(t *testing.T) {
	_, err := readSubstitutionMatrix(itf8.NewCursor(identityMatrixBytes()[:3]))
	require.Error(t, err)
	assert.Equal(t, KindTruncatedStream, KindOf(err))
}
