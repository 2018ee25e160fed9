package cram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileHeaderBadMagic(t *testing.T) {
	_, err := ReadFileHeader(bytes.NewReader([]byte("BAM\x01")))
	require.Error(t, err)
	assert.Equal(t, KindMalformedStream, KindOf(err))
}

func TestReadFileHeaderTruncated(t *testing.T) {
	_, err := ReadFileHeader(bytes.NewReader([]byte("CRAM")))
	require.Error(t, err)
	assert.Equal(t, KindTruncatedStream, KindOf(err))
}
