// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package golomb implements CRAM's Golomb codec: a non-negative
// integer x' = x + offset is split into a unary-coded quotient
// q = x'/m and a truncated-binary remainder r = x' mod m, per
// net.sf.cram.encoding.GolombIntegerEncoding's parameter layout (offset,
// m; see DESIGN.md). The actual GolombIntegerCodec body was not
// present in the excerpted reference sources, so the remainder uses
// the standard truncated-binary threshold/cutoff split named in
// spec.md §4.3.
package golomb

import (
	"fmt"
	"math/bits"

	"github.com/singerma/cramtools/encoding/cram/bitio"
)

// Codec is CRAM's Golomb codec.
type Codec struct {
	M      uint32
	Offset int32

	// b and cutoff are the truncated-binary parameters derived from M:
	// b = floor(log2(M)), cutoff = 2^(b+1) - M. Remainders below cutoff
	// take b bits; remainders at or above it take b+1 bits.
	b      uint
	cutoff uint32
}

// New returns a Golomb codec with modulus m (m >= 1) and offset.
func New(m uint32, offset int32) (*Codec, error) {
	if m < 1 {
		return nil, fmt.Errorf("golomb: m must be >= 1, got %d", m)
	}
	b := uint(bits.Len32(m) - 1) // floor(log2(m))
	cutoff := uint32(1)<<(b+1) - m
	return &Codec{M: m, Offset: offset, b: b, cutoff: cutoff}, nil
}

// Read decodes the next non-negative integer from bis. Fails with
// ValueOutOfRangeError if the decoded x' is less than offset.
func (c *Codec) Read(bis *bitio.Reader) (int32, error) {
	q, err := readUnary(bis)
	if err != nil {
		return 0, err
	}
	r, err := c.readRemainder(bis)
	if err != nil {
		return 0, err
	}
	xPrime := int64(q)*int64(c.M) + int64(r)
	x := xPrime - int64(c.Offset)
	if xPrime < int64(c.Offset) {
		return 0, &ValueOutOfRangeError{Decoded: xPrime, Offset: c.Offset}
	}
	return int32(x), nil
}

// Write encodes a non-negative x by first computing x' = x + offset.
func (c *Codec) Write(bos *bitio.Writer, x int32) error {
	xPrime := int64(x) + int64(c.Offset)
	if xPrime < 0 {
		return &ValueOutOfRangeError{Decoded: xPrime, Offset: c.Offset}
	}
	q := uint32(xPrime) / c.M
	r := uint32(xPrime) % c.M
	if err := writeUnary(bos, q); err != nil {
		return err
	}
	return c.writeRemainder(bos, r)
}

// readRemainder reads a truncated-binary remainder in [0, m).
func (c *Codec) readRemainder(bis *bitio.Reader) (uint32, error) {
	if c.b == 0 {
		// m == 1: the remainder is always zero and occupies zero bits
		// (cutoff == 1 in this case, and 0 < cutoff always holds).
		return 0, nil
	}
	v, err := bis.ReadBits(c.b)
	if err != nil {
		return 0, err
	}
	if uint32(v) < c.cutoff {
		return uint32(v), nil
	}
	extra, err := bis.ReadBits(1)
	if err != nil {
		return 0, err
	}
	combined := uint32(v)<<1 | uint32(extra)
	return combined - c.cutoff, nil
}

// writeRemainder writes r (0 <= r < m) using truncated binary.
func (c *Codec) writeRemainder(bos *bitio.Writer, r uint32) error {
	if c.b == 0 {
		return nil
	}
	if r < c.cutoff {
		return bos.WriteBits(uint64(r), c.b)
	}
	combined := r + c.cutoff
	return bos.WriteBits(uint64(combined), c.b+1)
}

// readUnary counts 1-bits up to (and consuming) the terminating 0-bit.
func readUnary(bis *bitio.Reader) (uint32, error) {
	var q uint32
	for {
		bit, err := bis.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return q, nil
		}
		q++
	}
}

// writeUnary writes q 1-bits followed by a terminating 0-bit.
func writeUnary(bos *bitio.Writer, q uint32) error {
	for i := uint32(0); i < q; i++ {
		if err := bos.WriteBits(1, 1); err != nil {
			return err
		}
	}
	return bos.WriteBits(0, 1)
}

// ValueOutOfRangeError is returned when a decoded (or pre-offset)
// value is negative after applying the codec's offset.
type ValueOutOfRangeError struct {
	Decoded int64
	Offset  int32
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("golomb: decoded x'=%d is less than offset %d", e.Decoded, e.Offset)
}
