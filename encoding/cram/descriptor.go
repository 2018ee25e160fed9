// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"fmt"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// EncodingID names a CRAM codec family, as stored as the first ITF8 in
// a data-series encoding descriptor (spec.md §4.4).
type EncodingID int32

const (
	EncodingNull           EncodingID = 0
	EncodingExternal       EncodingID = 1
	EncodingGolomb         EncodingID = 2
	EncodingHuffman        EncodingID = 3
	EncodingByteArrayLen   EncodingID = 4
	EncodingByteArrayStop  EncodingID = 5
	EncodingBeta           EncodingID = 6
	EncodingSubexponential EncodingID = 7
	EncodingGolombRice     EncodingID = 8
	EncodingGamma          EncodingID = 9
)

func (id EncodingID) String() string {
	switch id {
	case EncodingNull:
		return "NULL"
	case EncodingExternal:
		return "EXTERNAL"
	case EncodingGolomb:
		return "GOLOMB"
	case EncodingHuffman:
		return "HUFFMAN"
	case EncodingByteArrayLen:
		return "BYTE_ARRAY_LEN"
	case EncodingByteArrayStop:
		return "BYTE_ARRAY_STOP"
	case EncodingBeta:
		return "BETA"
	case EncodingSubexponential:
		return "SUBEXP"
	case EncodingGolombRice:
		return "GOLOMB_RICE"
	case EncodingGamma:
		return "GAMMA"
	default:
		return fmt.Sprintf("EncodingID(%d)", int32(id))
	}
}

// Descriptor is one data series's encoding descriptor: a codec id plus
// the codec's own parameter bytes, laid out as
// itf8(id) itf8(len(params)) params... (spec.md §4.4).
type Descriptor struct {
	ID     EncodingID
	Params []byte
}

// ParseDescriptor reads one encoding descriptor from c, including any
// nested descriptors its parameters embed (BYTE_ARRAY_LEN carries two).
func ParseDescriptor(c *itf8.Cursor) (*Descriptor, error) {
	rawID, err := c.ReadSigned()
	if err != nil {
		return nil, E(KindTruncatedStream, "encoding descriptor id", err)
	}
	n, err := c.ReadUnsigned()
	if err != nil {
		return nil, E(KindTruncatedStream, "encoding descriptor param length", err)
	}
	rest := c.Remaining()
	if uint32(len(rest)) < n {
		return nil, E(KindTruncatedStream, "encoding descriptor params", nil)
	}
	params := make([]byte, n)
	for i := range params {
		b, err := c.ReadByte()
		if err != nil {
			return nil, E(KindTruncatedStream, "encoding descriptor params", err)
		}
		params[i] = b
	}
	return &Descriptor{ID: EncodingID(rawID), Params: params}, nil
}
