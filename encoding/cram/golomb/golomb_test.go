package golomb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singerma/cramtools/encoding/cram/bitio"
)

func roundTrip(t *testing.T, c *Codec, values []int32) {
	t.Helper()
	w := bitio.NewWriter()
	for _, v := range values {
		require.NoError(t, c.Write(w, v))
	}
	data := w.Flush()
	r := bitio.NewReader(data)
	for _, want := range values {
		got, err := c.Read(r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRoundTripPowerOfTwoM(t *testing.T) {
	c, err := New(8, 0)
	require.NoError(t, err)
	roundTrip(t, c, []int32{0, 1, 7, 8, 15, 16, 100, 255})
}

func TestRoundTripNonPowerOfTwoM(t *testing.T) {
	c, err := New(5, 0)
	require.NoError(t, err)
	roundTrip(t, c, []int32{0, 1, 2, 3, 4, 5, 6, 9, 10, 24, 25, 1000})
}

func TestRoundTripWithOffset(t *testing.T) {
	c, err := New(3, -10)
	require.NoError(t, err)
	roundTrip(t, c, []int32{-10, -9, -8, 0, 5, 50})
}

func TestMEqualsOne(t *testing.T) {
	c, err := New(1, 0)
	require.NoError(t, err)
	roundTrip(t, c, []int32{0, 1, 2, 3, 100})
}

func TestWriteNegativeAfterOffsetFails(t *testing.T) {
	c, err := New(4, 0)
	require.NoError(t, err)
	w := bitio.NewWriter()
	err = c.Write(w, -1)
	var target *ValueOutOfRangeError
	assert.ErrorAs(t, err, &target)
}

func TestNewRejectsZeroM(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)
}
