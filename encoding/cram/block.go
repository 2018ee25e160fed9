// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"bytes"
	"compress/bzip2"
	"hash/crc32"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/gzip"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// CompressionMethod names how a block's raw bytes were compressed
// (spec.md §4.6).
type CompressionMethod byte

const (
	CompressionRaw   CompressionMethod = 0
	CompressionGZIP  CompressionMethod = 1
	CompressionBZIP2 CompressionMethod = 2
	CompressionLZMA  CompressionMethod = 3
	CompressionRANS  CompressionMethod = 4
)

// ContentType distinguishes a block's role within a container or slice
// (spec.md §4.6).
type ContentType byte

const (
	ContentFileHeader        ContentType = 0
	ContentCompressionHeader ContentType = 1
	ContentSliceHeader       ContentType = 2
	ContentExternal          ContentType = 4
	ContentCore              ContentType = 5
)

// Block is one CRAM block envelope: a compression method, a content
// type and id, and the compressed/decompressed byte payload, verified
// against a trailing CRC-32 (spec.md §4.6).
type Block struct {
	Method        CompressionMethod
	ContentType   ContentType
	ContentID     int32
	RawSize       int32
	CompressedLen int32

	Data []byte // decompressed payload
}

// ReadBlock parses one block from r, decompresses its payload, and
// checks the trailing CRC-32 against the decompressed bytes.
func ReadBlock(r io.Reader) (*Block, error) {
	br := newByteCursorReader(r)
	method, err := br.ReadByte()
	if err != nil {
		return nil, E(KindTruncatedStream, "block compression method", err)
	}
	contentType, err := br.ReadByte()
	if err != nil {
		return nil, E(KindTruncatedStream, "block content type", err)
	}
	contentID, err := itf8.ReadSigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "block content id", err)
	}
	compressedLen, err := itf8.ReadUnsigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "block compressed length", err)
	}
	rawSize, err := itf8.ReadUnsigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "block raw size", err)
	}
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, E(KindTruncatedStream, "block payload", err)
	}
	var crcBuf [4]byte
	if _, err := io.ReadFull(br, crcBuf[:]); err != nil {
		return nil, E(KindTruncatedStream, "block crc", err)
	}

	b := &Block{
		Method:        CompressionMethod(method),
		ContentType:   ContentType(contentType),
		ContentID:     contentID,
		RawSize:       int32(rawSize),
		CompressedLen: int32(compressedLen),
	}
	data, err := decompress(b.Method, compressed, int(rawSize))
	if err != nil {
		return nil, err
	}
	b.Data = data

	// CRC-32 over the decompressed payload; a mismatch means the
	// decompressor produced the wrong bytes or the stream is corrupt.
	got := crc32.ChecksumIEEE(data)
	want := uint32(crcBuf[0]) | uint32(crcBuf[1])<<8 | uint32(crcBuf[2])<<16 | uint32(crcBuf[3])<<24
	if got != want {
		return nil, E(KindMalformedStream, "block crc mismatch", nil)
	}
	return b, nil
}

func decompress(method CompressionMethod, compressed []byte, rawSize int) ([]byte, error) {
	switch method {
	case CompressionRaw:
		return compressed, nil
	case CompressionGZIP:
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, E(KindMalformedStream, "gzip block", err)
		}
		defer zr.Close()
		data, err := ioutil.ReadAll(zr)
		if err != nil {
			return nil, E(KindMalformedStream, "gzip block", err)
		}
		return data, nil
	case CompressionBZIP2:
		data, err := ioutil.ReadAll(bzip2.NewReader(bytes.NewReader(compressed)))
		if err != nil {
			return nil, E(KindMalformedStream, "bzip2 block", err)
		}
		return data, nil
	case CompressionLZMA, CompressionRANS:
		return nil, E(KindUnsupportedEncoding, "block compression method", nil)
	default:
		return nil, E(KindUnsupportedEncoding, "block compression method", nil)
	}
}

// byteCursorReader adapts an io.Reader into the io.ByteReader the itf8
// package requires, without assuming the underlying reader already
// implements ReadByte.
type byteCursorReader struct {
	r   io.Reader
	buf [1]byte
}

func newByteCursorReader(r io.Reader) *byteCursorReader {
	if br, ok := r.(*byteCursorReader); ok {
		return br
	}
	return &byteCursorReader{r: r}
}

func (b *byteCursorReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}

func (b *byteCursorReader) Read(p []byte) (int, error) { return b.r.Read(p) }
