// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/singerma/cramtools/encoding/cram/beta"
	"github.com/singerma/cramtools/encoding/cram/bitio"
	"github.com/singerma/cramtools/encoding/cram/golomb"
	"github.com/singerma/cramtools/encoding/cram/huffman"
	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// Environment bundles the byte and bit sources a slice's codecs read
// from: the one shared core bit stream, plus one ExternalBuffer per
// content id any descriptor in the slice's compression header refers
// to (spec.md §4.6, §4.7).
type Environment struct {
	Core     *bitio.Reader
	External map[int32]*ExternalBuffer
}

func (e *Environment) external(contentID int32) (*ExternalBuffer, error) {
	b, ok := e.External[contentID]
	if !ok {
		return nil, E(KindMalformedStream, "no external block for content id", nil)
	}
	return b, nil
}

// IntSeriesCodec decodes one integer data series.
type IntSeriesCodec interface {
	ReadInt(env *Environment) (int32, error)
}

// ByteSeriesCodec decodes one byte data series.
type ByteSeriesCodec interface {
	ReadByte(env *Environment) (byte, error)
}

// ByteArraySeriesCodec decodes one variable-length byte-array data
// series (read names, insertion and soft-clip sequences: spec.md §4.4's
// BYTE_ARRAY_LEN and BYTE_ARRAY_STOP composites).
type ByteArraySeriesCodec interface {
	ReadByteArray(env *Environment) ([]byte, error)
}

// NewIntSeriesCodec builds the decoder a data series's descriptor
// names, for a series whose values are integers.
func NewIntSeriesCodec(d *Descriptor) (IntSeriesCodec, error) {
	c := itf8.NewCursor(d.Params)
	switch d.ID {
	case EncodingExternal:
		contentID, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "external int descriptor", err)
		}
		return &externalIntCodec{contentID: contentID}, nil
	case EncodingBeta:
		offset, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "beta descriptor", err)
		}
		bitLimit, err := c.ReadUnsigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "beta descriptor", err)
		}
		bc, err := beta.New(offset, bitLimit)
		if err != nil {
			return nil, E(KindMalformedStream, "beta descriptor", err)
		}
		return &betaCodec{c: bc}, nil
	case EncodingGolomb:
		offset, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "golomb descriptor", err)
		}
		m, err := c.ReadUnsigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "golomb descriptor", err)
		}
		gc, err := golomb.New(m, offset)
		if err != nil {
			return nil, E(KindMalformedStream, "golomb descriptor", err)
		}
		return &golombCodec{c: gc}, nil
	case EncodingHuffman:
		values, lengths, err := parseHuffmanTable(c)
		if err != nil {
			return nil, err
		}
		hc, err := huffman.NewIntCodec(values, lengths)
		if err != nil {
			return nil, E(KindMalformedStream, "huffman int descriptor", err)
		}
		return &huffmanIntCodec{c: hc}, nil
	default:
		return nil, E(KindUnsupportedEncoding, d.ID.String()+" as int series", nil)
	}
}

// NewByteSeriesCodec builds the decoder a data series's descriptor
// names, for a series whose values are single bytes.
func NewByteSeriesCodec(d *Descriptor) (ByteSeriesCodec, error) {
	c := itf8.NewCursor(d.Params)
	switch d.ID {
	case EncodingExternal:
		contentID, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "external byte descriptor", err)
		}
		return &externalByteCodec{contentID: contentID}, nil
	case EncodingHuffman:
		values, lengths, err := parseHuffmanTable(c)
		if err != nil {
			return nil, err
		}
		byteValues := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, E(KindMalformedStream, "huffman byte descriptor value out of range", nil)
			}
			byteValues[i] = byte(v)
		}
		hc, err := huffman.NewByteCodec(byteValues, lengths)
		if err != nil {
			return nil, E(KindMalformedStream, "huffman byte descriptor", err)
		}
		return &huffmanByteCodec{c: hc}, nil
	default:
		return nil, E(KindUnsupportedEncoding, d.ID.String()+" as byte series", nil)
	}
}

// NewByteArraySeriesCodec builds the decoder a data series's descriptor
// names, for a series whose values are variable-length byte arrays.
func NewByteArraySeriesCodec(d *Descriptor) (ByteArraySeriesCodec, error) {
	c := itf8.NewCursor(d.Params)
	switch d.ID {
	case EncodingByteArrayLen:
		lenDesc, err := ParseDescriptor(c)
		if err != nil {
			return nil, err
		}
		eltDesc, err := ParseDescriptor(c)
		if err != nil {
			return nil, err
		}
		lenCodec, err := NewIntSeriesCodec(lenDesc)
		if err != nil {
			return nil, err
		}
		eltCodec, err := NewByteSeriesCodec(eltDesc)
		if err != nil {
			return nil, err
		}
		return &byteArrayLenCodec{length: lenCodec, elt: eltCodec}, nil
	case EncodingByteArrayStop:
		stop, err := c.ReadByte()
		if err != nil {
			return nil, E(KindTruncatedStream, "byte_array_stop descriptor", err)
		}
		contentID, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "byte_array_stop descriptor", err)
		}
		return &byteArrayStopCodec{stop: stop, contentID: contentID}, nil
	default:
		return nil, E(KindUnsupportedEncoding, d.ID.String()+" as byte array series", nil)
	}
}

// parseHuffmanTable reads the n, values[n], bitLengths[n] layout shared
// by HUFFMAN_INT and HUFFMAN_BYTE descriptors (spec.md §4.1).
func parseHuffmanTable(c *itf8.Cursor) (values []int32, lengths []uint32, err error) {
	n, err := c.ReadUnsigned()
	if err != nil {
		return nil, nil, E(KindTruncatedStream, "huffman descriptor alphabet size", err)
	}
	values = make([]int32, n)
	for i := range values {
		values[i], err = c.ReadSigned()
		if err != nil {
			return nil, nil, E(KindTruncatedStream, "huffman descriptor values", err)
		}
	}
	lengths = make([]uint32, n)
	for i := range lengths {
		lengths[i], err = c.ReadUnsigned()
		if err != nil {
			return nil, nil, E(KindTruncatedStream, "huffman descriptor bit lengths", err)
		}
	}
	return values, lengths, nil
}

type externalIntCodec struct{ contentID int32 }

func (c *externalIntCodec) ReadInt(env *Environment) (int32, error) {
	b, err := env.external(c.contentID)
	if err != nil {
		return 0, err
	}
	return b.ReadInt()
}

type betaCodec struct{ c *beta.Codec }

func (c *betaCodec) ReadInt(env *Environment) (int32, error) {
	v, err := c.c.Read(env.Core)
	if err != nil {
		return 0, wrapBitErr(err)
	}
	return v, nil
}

type golombCodec struct{ c *golomb.Codec }

func (c *golombCodec) ReadInt(env *Environment) (int32, error) {
	v, err := c.c.Read(env.Core)
	if err != nil {
		if _, ok := err.(*golomb.ValueOutOfRangeError); ok {
			return 0, E(KindValueOutOfRange, "golomb series", err)
		}
		return 0, wrapBitErr(err)
	}
	return v, nil
}

type huffmanIntCodec struct{ c *huffman.IntCodec }

func (c *huffmanIntCodec) ReadInt(env *Environment) (int32, error) {
	v, err := c.c.Read(env.Core)
	if err != nil {
		return 0, wrapHuffmanErr(err)
	}
	return v, nil
}

type externalByteCodec struct{ contentID int32 }

func (c *externalByteCodec) ReadByte(env *Environment) (byte, error) {
	b, err := env.external(c.contentID)
	if err != nil {
		return 0, err
	}
	return b.ReadByte()
}

type huffmanByteCodec struct{ c *huffman.ByteCodec }

func (c *huffmanByteCodec) ReadByte(env *Environment) (byte, error) {
	v, err := c.c.Read(env.Core)
	if err != nil {
		return 0, wrapHuffmanErr(err)
	}
	return v, nil
}

// byteArrayLenCodec reads a length from an int series, then that many
// elements from a byte series (BYTE_ARRAY_LEN, spec.md §4.4).
type byteArrayLenCodec struct {
	length IntSeriesCodec
	elt    ByteSeriesCodec
}

func (c *byteArrayLenCodec) ReadByteArray(env *Environment) ([]byte, error) {
	n, err := c.length.ReadInt(env)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, E(KindMalformedRecord, "negative byte array length", nil)
	}
	out := make([]byte, n)
	for i := range out {
		out[i], err = c.elt.ReadByte(env)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// byteArrayStopCodec reads raw bytes from one external block until it
// hits a terminator byte, exclusive (BYTE_ARRAY_STOP, spec.md §4.4).
type byteArrayStopCodec struct {
	stop      byte
	contentID int32
}

func (c *byteArrayStopCodec) ReadByteArray(env *Environment) ([]byte, error) {
	b, err := env.external(c.contentID)
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		v, err := b.ReadByte()
		if err != nil {
			return nil, err
		}
		if v == c.stop {
			return out, nil
		}
		out = append(out, v)
	}
}

func wrapBitErr(err error) error {
	return E(KindTruncatedStream, "bit stream", err)
}

func wrapHuffmanErr(err error) error {
	switch err.(type) {
	case *huffman.SymbolNotInAlphabetError:
		return E(KindSymbolNotInAlphabet, "huffman series", err)
	}
	if err == huffman.ErrMalformedStream {
		return E(KindMalformedStream, "huffman series", err)
	}
	return E(KindTruncatedStream, "huffman series", err)
}
