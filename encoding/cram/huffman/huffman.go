// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package huffman implements CRAM's canonical Huffman codec, in both
// its integer and byte-alphabet variants. The canonical code
// assignment and decode-table layout follow
// net.sf.cram.encoding.huffint.HelperByte/CanonicalHuffmanIntegerCodec2
// in the original CRAM reference implementation line for line (see
// DESIGN.md).
package huffman

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/singerma/cramtools/encoding/cram/bitio"
)

// bitCode is the (value, bitLength, bitCode) triple described in
// spec.md §3 as HuffmanBitCode.
type bitCode struct {
	value     int32
	bitLength uint8
	code      uint32
}

// book is the canonical Huffman codebook shared by the int and byte
// codecs: the per-symbol encode table plus the four parallel
// rank-sorted arrays used to decode.
type book struct {
	encode map[int32]bitCode

	sortedCodes   []bitCode
	sortedValues  []int32
	sortedLengths []uint8
	rankByCode    []int32 // sized maxCode+1; -1 where absent
}

// buildBook assigns canonical Huffman codes to values[i] with bit
// length bitLengths[i], following spec.md §4.1's canonical procedure.
func buildBook(values []int32, bitLengths []uint32) (*book, error) {
	if len(values) != len(bitLengths) {
		return nil, fmt.Errorf("huffman: values and bitLengths length mismatch: %d != %d", len(values), len(bitLengths))
	}
	type symbol struct {
		value  int32
		length uint32
	}
	symbols := make([]symbol, len(values))
	for i := range values {
		symbols[i] = symbol{values[i], bitLengths[i]}
	}
	// Group by bit length, symbols within a length group sorted
	// ascending, groups visited in ascending bit-length order -- i.e.
	// a plain sort on (length, value).
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].length != symbols[j].length {
			return symbols[i].length < symbols[j].length
		}
		return symbols[i].value < symbols[j].value
	})

	b := &book{encode: make(map[int32]bitCode, len(symbols))}
	codes := make([]bitCode, len(symbols))
	codeValue := int32(-1)
	codeLength := uint32(0)
	for i, s := range symbols {
		codeValue++
		delta := s.length - codeLength
		codeValue <<= delta
		codeLength += delta
		if bits.OnesCount32(uint32(codeValue)) > int(s.length) {
			return nil, fmt.Errorf("huffman: symbol out of range: value=%d bitLength=%d code=%d", s.value, s.length, codeValue)
		}
		c := bitCode{value: s.value, bitLength: uint8(s.length), code: uint32(codeValue)}
		codes[i] = c
		b.encode[s.value] = c
	}

	// sortedCodes is already sorted by (bitLength, code) because the
	// canonical assignment above is monotonic in code value within an
	// ascending bit-length walk.
	b.sortedCodes = codes
	b.sortedValues = make([]int32, len(codes))
	b.sortedLengths = make([]uint8, len(codes))
	maxCode := uint32(0)
	for i, c := range codes {
		b.sortedValues[i] = c.value
		b.sortedLengths[i] = c.bitLength
		if c.code > maxCode {
			maxCode = c.code
		}
	}
	b.rankByCode = make([]int32, maxCode+1)
	for i := range b.rankByCode {
		b.rankByCode[i] = -1
	}
	for i, c := range codes {
		b.rankByCode[c.code] = int32(i)
	}
	return b, nil
}

// write emits value's canonical code to bos and returns the number of
// bits written.
func (b *book) write(bos *bitio.Writer, value int32) (int, error) {
	code, ok := b.encode[value]
	if !ok {
		return 0, &SymbolNotInAlphabetError{Value: value}
	}
	if code.bitLength == 0 {
		return 0, nil
	}
	if err := bos.WriteBits(uint64(code.code), uint(code.bitLength)); err != nil {
		return 0, err
	}
	return int(code.bitLength), nil
}

// bitsFor returns the bit length assigned to value.
func (b *book) bitsFor(value int32) (uint32, error) {
	code, ok := b.encode[value]
	if !ok {
		return 0, &SymbolNotInAlphabetError{Value: value}
	}
	return uint32(code.bitLength), nil
}

// read decodes the next symbol from bis, following spec.md §4.1's
// decode loop: extend the accumulated bit pattern one length-group at
// a time and probe rankByCode after each extension.
//
// A single-symbol alphabet has bitLength 0 for its only symbol; in
// that case sortedCodes[0].bitLength is 0, the loop's first iteration
// reads zero additional bits, and the rank lookup on bits==0 succeeds
// immediately -- matching the edge case named in spec.md §4.1.
func (b *book) read(bis *bitio.Reader) (int32, error) {
	var bitsAcc uint64
	var prevLen uint8
	for i := 0; i < len(b.sortedCodes); i++ {
		length := b.sortedCodes[i].bitLength
		extend := length - prevLen
		if extend > 0 {
			more, err := bis.ReadBits(uint(extend))
			if err != nil {
				return 0, err
			}
			bitsAcc = bitsAcc<<uint(extend) | more
		}
		prevLen = length

		if bitsAcc < uint64(len(b.rankByCode)) {
			if index := b.rankByCode[bitsAcc]; index >= 0 && b.sortedLengths[index] == length {
				return b.sortedValues[index], nil
			}
		}

		// Advance past every remaining code of this same length: none
		// of them can match, since the rank lookup above already
		// tested this exact bit pattern against every code of this
		// length (spec.md §9, on the Java source's off-by-one: this
		// bounds-checks before indexing).
		for i+1 < len(b.sortedCodes) && b.sortedCodes[i+1].bitLength == length {
			i++
		}
	}
	return 0, ErrMalformedStream
}

// ErrMalformedStream is returned when the decode loop exhausts every
// codebook entry without a match, i.e. the underlying bits do not
// correspond to any valid canonical code in this codebook.
var ErrMalformedStream = fmt.Errorf("huffman: no matching code (malformed stream)")

// SymbolNotInAlphabetError is returned by encode-side lookups of a
// value with no assigned code.
type SymbolNotInAlphabetError struct {
	Value int32
}

func (e *SymbolNotInAlphabetError) Error() string {
	return fmt.Sprintf("huffman: symbol not in alphabet: %d", e.Value)
}
