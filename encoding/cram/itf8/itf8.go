// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package itf8 reads and writes CRAM's ITF8 variable-length integer
// encoding: 1 to 5 bytes, big-endian, with the number of high bits set
// in the first byte determining how many continuation bytes follow.
package itf8

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a byte sequence claims a continuation
// pattern this decoder does not recognize.
var ErrOverflow = errors.New("itf8: malformed prefix")

// ReadUnsigned reads one ITF8-encoded unsigned integer from r.
//
// The encoding examines the high bits of the first byte:
//
//	0xxxxxxx                            -> 7  bits, 1 byte total
//	10xxxxxx xxxxxxxx                   -> 14 bits, 2 bytes total
//	110xxxxx xxxxxxxx xxxxxxxx          -> 21 bits, 3 bytes total
//	1110xxxx xxxxxxxx xxxxxxxx xxxxxxxx -> 28 bits, 4 bytes total
//	1111xxxx + 4 more bytes             -> 32 bits, 5 bytes total (low nibble of
//	                                        the first byte, three full bytes, and
//	                                        the low nibble of the last byte; see
//	                                        read4moreWide)
func ReadUnsigned(r io.ByteReader) (uint32, error) {
	b0, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b0&0x80 == 0: // 0xxxxxxx
		return uint32(b0), nil
	case b0&0x40 == 0: // 10xxxxxx
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint32(b0&0x3f)<<8 | uint32(b1), nil
	case b0&0x20 == 0: // 110xxxxx
		return read2more(r, b0&0x1f)
	case b0&0x10 == 0: // 1110xxxx
		return read3more(r, b0&0x0f)
	default: // 1111xxxx
		return read4moreWide(r, b0&0x0f)
	}
}

func read2more(r io.ByteReader, high byte) (uint32, error) {
	v := uint32(high)
	for i := 0; i < 2; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(b)
	}
	return v, nil
}

func read3more(r io.ByteReader, high byte) (uint32, error) {
	v := uint32(high)
	for i := 0; i < 3; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(b)
	}
	return v, nil
}

// read4moreWide implements the 5-byte form. The first byte's low nibble
// supplies bits 31-28; the next three trailing bytes supply bits 27-20,
// 19-12 and 11-4 respectively, each at full width; the fifth and final
// byte supplies only its own low nibble, bits 3-0 -- its high nibble is
// a redundant copy of the fourth byte's low nibble that the CRAM wire
// format carries but the decoder discards. A byte-for-byte
// concatenation (as for the 2/3/4-byte forms) would misplace every one
// of these fields by four bits.
func read4moreWide(r io.ByteReader, high byte) (uint32, error) {
	var b [4]byte
	for i := range b {
		v, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		b[i] = v
	}
	return uint32(high)<<28 | uint32(b[0])<<20 | uint32(b[1])<<12 | uint32(b[2])<<4 | uint32(b[3]&0x0f), nil
}

// ReadSigned reads an ITF8-encoded integer and reinterprets its bits as
// a signed int32 (CRAM stores some fields, e.g. sequence ids and
// alignment-start deltas, as ITF8 over the two's-complement bit
// pattern of a signed value).
func ReadSigned(r io.ByteReader) (int32, error) {
	v, err := ReadUnsigned(r)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// WriteUnsigned writes v to w using the ITF8 encoding, choosing the
// shortest representation that fits. It exists for round-trip testing
// of the codec family; this module has no CRAM encoder.
func WriteUnsigned(w io.ByteWriter, v uint32) error {
	switch {
	case v < 1<<7:
		return w.WriteByte(byte(v))
	case v < 1<<14:
		if err := w.WriteByte(byte(0x80 | (v >> 8))); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v < 1<<21:
		if err := w.WriteByte(byte(0xc0 | (v >> 16))); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	case v < 1<<28:
		if err := w.WriteByte(byte(0xe0 | (v >> 24))); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 16)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	default:
		if err := w.WriteByte(byte(0xf0 | (v >> 28))); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 20)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 12)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 4)); err != nil {
			return err
		}
		return w.WriteByte(byte(v))
	}
}

// WriteSigned writes the bit pattern of v using WriteUnsigned.
func WriteSigned(w io.ByteWriter, v int32) error {
	return WriteUnsigned(w, uint32(v))
}

// Cursor reads ITF8 values from an in-memory byte slice, used for
// parsing the parameter blob of an encoding descriptor (spec.md §4.4)
// without allocating an io.Reader.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a Cursor over data.
func NewCursor(data []byte) *Cursor { return &Cursor{data: data} }

// ReadByte implements io.ByteReader so a Cursor can feed ReadUnsigned
// directly.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, io.ErrUnexpectedEOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// ReadUnsigned reads one ITF8 value from the cursor.
func (c *Cursor) ReadUnsigned() (uint32, error) { return ReadUnsigned(c) }

// ReadSigned reads one ITF8 value from the cursor, reinterpreted as
// signed.
func (c *Cursor) ReadSigned() (int32, error) { return ReadSigned(c) }

// Remaining returns the bytes not yet consumed.
func (c *Cursor) Remaining() []byte { return c.data[c.pos:] }

// Done reports whether the cursor has consumed all of its input.
func (c *Cursor) Done() bool { return c.pos >= len(c.data) }
