package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBits(0x1, 1))
	require.NoError(t, w.WriteBits(0x3, 2))
	require.NoError(t, w.WriteBits(0xAB, 8))
	require.NoError(t, w.WriteBits(0x7, 3))
	data := w.Flush()

	r := NewReader(data)
	v, err := r.ReadBits(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1), v)

	v, err = r.ReadBits(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), v)

	v, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), v)

	v, err = r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7), v)
}

func TestReaderMSBFirstByte(t *testing.T) {
	// 0b01001101 == 0x4D
	r := NewReader([]byte{0x4D})
	bits := []uint64{0, 1, 0, 0, 1, 1, 0, 1}
	for _, want := range bits {
		v, err := r.ReadBits(1)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.True(t, r.AtEnd())
}

func TestReaderWideReads(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x00, 0xAB})
	v, err := r.ReadBits(24)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFF00AB), v)
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := r.ReadBits(4)
	require.NoError(t, err)
	_, err = r.ReadBits(8)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderBadCount(t *testing.T) {
	r := NewReader([]byte{0x00})
	_, err := r.ReadBits(0)
	assert.ErrorIs(t, err, ErrCount)
	_, err = r.ReadBits(65)
	assert.ErrorIs(t, err, ErrCount)
}

func TestWriterPaddingFlush(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBits(0x1, 1))
	data := w.Flush()
	require.Len(t, data, 1)
	assert.Equal(t, byte(0x80), data[0])
}
