package itf8

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip covers one representative value from each of ITF8's
// five length classes.
func TestRoundTrip(t *testing.T) {
	values := []uint32{0, 0x7f, 0x3fff, 0x1fffff, 0xfffffff, 0xffffffff}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, WriteUnsigned(&buf, v))
		got, err := ReadUnsigned(&buf)
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %#x", v)
	}
}

// TestReadUnsignedByteLength confirms the prefix bits in the first byte
// select the advertised total byte count.
func TestReadUnsignedByteLength(t *testing.T) {
	cases := []struct {
		data []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 0x7f},
		{[]byte{0x80, 0x01}, 1},
		{[]byte{0xc0, 0x01, 0x02}, 0x0102},
		{[]byte{0xe0, 0x01, 0x02, 0x03}, 0x010203},
		{[]byte{0xf0, 0x01, 0x02, 0x03, 0x04}, 0x01020304},
	}
	for _, c := range cases {
		got, err := ReadUnsigned(bytes.NewReader(c.data))
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestReadSignedReinterpretsBits(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUnsigned(&buf, 0xffffffff))
	got, err := ReadSigned(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -1, got)
}

func TestReadUnsignedTruncated(t *testing.T) {
	_, err := ReadUnsigned(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}

func TestCursor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUnsigned(&buf, 42))
	require.NoError(t, WriteUnsigned(&buf, 1000))

	c := NewCursor(buf.Bytes())
	assert.False(t, c.Done())
	v1, err := c.ReadUnsigned()
	require.NoError(t, err)
	assert.EqualValues(t, 42, v1)
	v2, err := c.ReadUnsigned()
	require.NoError(t, err)
	assert.EqualValues(t, 1000, v2)
	assert.True(t, c.Done())

	_, err = c.ReadByte()
	assert.Error(t, err)
}

func TestCursorRemaining(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})
	_, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x03}, c.Remaining())
}
