package huffman

import (
	"fmt"

	"github.com/singerma/cramtools/encoding/cram/bitio"
)

// ByteCodec is the canonical Huffman codec over the byte alphabet
// 0..255 (CRAM's HUFFMAN_BYTE data-series encoding).
//
// Unlike IntCodec, the encode side here is backed by a fixed 256-entry
// array rather than a map, matching net.sf.cram.encoding.huffint.HelperByte's
// valueToCode table -- except sized to 256, not 255, per the bug noted
// in spec.md §9 ("byte value 255 would overflow" in the original
// source).
type ByteCodec struct {
	b *book

	// valueToCodeIndex[v] is the index into b.sortedCodes for byte
	// value v, or -1 if v is not in the alphabet.
	valueToCodeIndex [256]int32
}

// NewByteCodec builds a canonical Huffman codebook over byte values
// (widened to int32) and their assigned bit lengths.
func NewByteCodec(values []byte, bitLengths []uint32) (*ByteCodec, error) {
	widened := make([]int32, len(values))
	for i, v := range values {
		widened[i] = int32(v)
	}
	b, err := buildBook(widened, bitLengths)
	if err != nil {
		return nil, err
	}
	c := &ByteCodec{b: b}
	for i := range c.valueToCodeIndex {
		c.valueToCodeIndex[i] = -1
	}
	for i, v := range b.sortedValues {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("huffman: byte alphabet value out of range: %d", v)
		}
		c.valueToCodeIndex[v] = int32(i)
	}
	return c, nil
}

// Read decodes the next byte from bis.
func (c *ByteCodec) Read(bis *bitio.Reader) (byte, error) {
	v, err := c.b.read(bis)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// Write encodes value to bos and returns the number of bits written.
func (c *ByteCodec) Write(bos *bitio.Writer, value byte) (int, error) {
	idx := c.valueToCodeIndex[value]
	if idx < 0 {
		return 0, &SymbolNotInAlphabetError{Value: int32(value)}
	}
	code := c.b.sortedCodes[idx]
	if code.value != int32(value) {
		return 0, fmt.Errorf("huffman: searching for %d but found %d", value, code.value)
	}
	if code.bitLength == 0 {
		return 0, nil
	}
	if err := bos.WriteBits(uint64(code.code), uint(code.bitLength)); err != nil {
		return 0, err
	}
	return int(code.bitLength), nil
}

// BitsFor returns the number of bits value's canonical code occupies.
func (c *ByteCodec) BitsFor(value byte) (uint32, error) {
	idx := c.valueToCodeIndex[value]
	if idx < 0 {
		return 0, &SymbolNotInAlphabetError{Value: int32(value)}
	}
	return uint32(c.b.sortedCodes[idx].bitLength), nil
}
