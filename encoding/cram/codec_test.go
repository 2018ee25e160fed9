package cram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteArrayLenCodecReadsLengthThenElements(t *testing.T) {
	lenParams := appendITF8Signed(nil, 11) // external content id 11, for the length
	lenDesc := &Descriptor{ID: EncodingExternal, Params: lenParams}
	eltParams := appendITF8Signed(nil, 12) // external content id 12, for the elements
	eltDesc := &Descriptor{ID: EncodingExternal, Params: eltParams}

	lenCodec, err := NewIntSeriesCodec(lenDesc)
	require.NoError(t, err)
	eltCodec, err := NewByteSeriesCodec(eltDesc)
	require.NoError(t, err)

	c := &byteArrayLenCodec{length: lenCodec, elt: eltCodec}

	env := &Environment{External: map[int32]*ExternalBuffer{
		11: NewExternalBuffer(appendITF8Signed(nil, 3)),
		12: NewExternalBuffer([]byte("XYZtrailing")),
	}}
	got, err := c.ReadByteArray(env)
	require.NoError(t, err)
	assert.Equal(t, []byte("XYZ"), got)
}

func TestByteArrayStopCodecNoTerminatorIsTruncated(t *testing.T) {
	c := &byteArrayStopCodec{stop: 0x00, contentID: 4}
	env := &Environment{External: map[int32]*ExternalBuffer{
		4: NewExternalBuffer([]byte("ACGT")), // no 0x00 terminator
	}}
	_, err := c.ReadByteArray(env)
	require.Error(t, err)
	assert.Equal(t, KindTruncatedStream, KindOf(err))
}

func TestExternalByteCodecMissingBlock(t *testing.T) {
	c := &externalByteCodec{contentID: 99}
	env := &Environment{External: map[int32]*ExternalBuffer{}}
	_, err := c.ReadByte(env)
	require.Error(t, err)
	assert.Equal(t, KindMalformedStream, KindOf(err))
}
