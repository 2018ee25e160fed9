// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package beta implements CRAM's Beta codec: a fixed-width integer
// read as bitLimit bits and shifted by an offset, per
// net.sf.cram.encoding.BetaIntegerEncoding's parameter layout (see
// DESIGN.md).
package beta

import (
	"fmt"

	"github.com/singerma/cramtools/encoding/cram/bitio"
)

// Codec is CRAM's Beta codec.
type Codec struct {
	Offset   int32
	BitLimit uint32 // 1..32
}

// New returns a Beta codec with the given offset and bit width.
func New(offset int32, bitLimit uint32) (*Codec, error) {
	if bitLimit < 1 || bitLimit > 32 {
		return nil, fmt.Errorf("beta: bitLimit out of range: %d", bitLimit)
	}
	return &Codec{Offset: offset, BitLimit: bitLimit}, nil
}

// Read decodes the next value: read(bis) = bis.read_bits(bitLimit) - offset.
func (c *Codec) Read(bis *bitio.Reader) (int32, error) {
	raw, err := bis.ReadBits(uint(c.BitLimit))
	if err != nil {
		return 0, err
	}
	return int32(raw) - c.Offset, nil
}

// Write encodes v: write(bos, v) = bos.write_bits(v + offset, bitLimit).
// Fails with ValueOutOfRangeError if v+offset does not fit in bitLimit
// bits.
func (c *Codec) Write(bos *bitio.Writer, v int32) error {
	shifted := int64(v) + int64(c.Offset)
	if shifted < 0 || (c.BitLimit < 64 && shifted >= int64(1)<<c.BitLimit) {
		return &ValueOutOfRangeError{Value: v, Offset: c.Offset, BitLimit: c.BitLimit}
	}
	return bos.WriteBits(uint64(shifted), uint(c.BitLimit))
}

// ValueOutOfRangeError is returned when a value plus its offset does
// not fit in the codec's configured bit width.
type ValueOutOfRangeError struct {
	Value    int32
	Offset   int32
	BitLimit uint32
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("beta: value %d + offset %d does not fit in %d bits", e.Value, e.Offset, e.BitLimit)
}
