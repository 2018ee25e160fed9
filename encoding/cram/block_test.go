package cram

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

func buildRawBlock(contentType ContentType, contentID int32, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(CompressionRaw))
	buf.WriteByte(byte(contentType))
	w := &itf8ByteSink{}
	_ = itf8.WriteSigned(w, contentID)
	buf.Write(w.bytes)
	w = &itf8ByteSink{}
	_ = itf8.WriteUnsigned(w, uint32(len(payload)))
	buf.Write(w.bytes)
	w = &itf8ByteSink{}
	_ = itf8.WriteUnsigned(w, uint32(len(payload)))
	buf.Write(w.bytes)
	buf.Write(payload)
	crc := crc32.ChecksumIEEE(payload)
	buf.WriteByte(byte(crc))
	buf.WriteByte(byte(crc >> 8))
	buf.WriteByte(byte(crc >> 16))
	buf.WriteByte(byte(crc >> 24))
	return buf.Bytes()
}

func TestReadBlockRaw(t *testing.T) {
	data := buildRawBlock(ContentExternal, 9, []byte("hello cram"))
	b, err := ReadBlock(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, CompressionRaw, b.Method)
	assert.Equal(t, ContentExternal, b.ContentType)
	assert.EqualValues(t, 9, b.ContentID)
	assert.Equal(t, []byte("hello cram"), b.Data)
}

func TestReadBlockCRCMismatch(t *testing.T) {
	data := buildRawBlock(ContentExternal, 9, []byte("hello cram"))
	data[len(data)-1] ^= 0xFF // corrupt the last CRC byte
	_, err := ReadBlock(bytes.NewReader(data))
	require.Error(t, err)
	assert.Equal(t, KindMalformedStream, KindOf(err))
}

func TestReadBlockUnsupportedCompression(t *testing.T) {
	data := buildRawBlock(ContentExternal, 9, []byte("x"))
	data[0] = byte(CompressionLZMA)
	_, err := ReadBlock(bytes.NewReader(data))
	require.Error(t, err)
	assert.Equal(t, KindUnsupportedEncoding, KindOf(err))
}

func TestReadBlockTruncated(t *testing.T) {
	data := buildRawBlock(ContentExternal, 9, []byte("hello cram"))
	_, err := ReadBlock(bytes.NewReader(data[:len(data)-2]))
	require.Error(t, err)
	assert.Equal(t, KindTruncatedStream, KindOf(err))
}
