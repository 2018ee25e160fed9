// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import "github.com/singerma/cramtools/encoding/cram/itf8"

// substitutionBases is the fixed base order CRAM's substitution matrix
// indexes by, both for its own rows and for the per-row rank codes
// (spec.md §4.3).
var substitutionBases = [5]byte{'A', 'C', 'G', 'T', 'N'}

func baseIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return 4
	}
}

// SubstitutionMatrix resolves a BS-series substitution code (0..3) and
// a reference base into the alternate base a record's feature
// substituted in (Base, used by the normalizer), plus the reverse
// lookup from an alternate base back to its code (Code, not used by
// the decode path) (spec.md §4.3, §4.5).
type SubstitutionMatrix struct {
	// baseByCode[refIdx][code] is the alternate base substitution code
	// "code" means, for reference base substitutionBases[refIdx].
	baseByCode [5][4]byte
	// codeByBase[refIdx][altIdx] is the inverse: which code represents
	// substitutionBases[altIdx] as the alternate for that reference
	// base. -1 for refIdx==altIdx, which never appears as a code.
	codeByBase [5][5]int8
}

// readSubstitutionMatrix parses the 5-byte matrix: one byte per
// reference base (A,C,G,T,N order), each packing four 2-bit rank codes
// for the four other bases, most-significant pair first.
func readSubstitutionMatrix(c *itf8.Cursor) (*SubstitutionMatrix, error) {
	sm := &SubstitutionMatrix{}
	for refIdx := range sm.codeByBase {
		for altIdx := range sm.codeByBase[refIdx] {
			sm.codeByBase[refIdx][altIdx] = -1
		}
	}
	for refIdx := 0; refIdx < 5; refIdx++ {
		row, err := c.ReadByte()
		if err != nil {
			return nil, E(KindTruncatedStream, "substitution matrix row", err)
		}
		others := otherBases(refIdx)
		for code := 0; code < 4; code++ {
			shift := 6 - 2*code
			rank := (row >> uint(shift)) & 0x3
			if int(rank) >= len(others) {
				return nil, E(KindMalformedStream, "substitution matrix rank", nil)
			}
			alt := others[rank]
			sm.baseByCode[refIdx][code] = alt
			sm.codeByBase[refIdx][baseIndex(alt)] = int8(code)
		}
	}
	return sm, nil
}

// otherBases returns substitutionBases without the entry at refIdx, in
// their original relative order.
func otherBases(refIdx int) []byte {
	out := make([]byte, 0, 4)
	for i, b := range substitutionBases {
		if i != refIdx {
			out = append(out, b)
		}
	}
	return out
}

// Base returns the alternate base a substitution code means for the
// given reference base. refBase outside A/C/G/T/N is treated as N.
func (sm *SubstitutionMatrix) Base(refBase byte, code int32) (byte, error) {
	if code < 0 || code > 3 {
		return 0, E(KindValueOutOfRange, "substitution code", nil)
	}
	return sm.baseByCode[baseIndex(refBase)][code], nil
}

// Code returns the substitution code that represents altBase as the
// alternate for refBase, or a KindMalformedRecord error if altBase
// equals refBase (not a valid substitution).
func (sm *SubstitutionMatrix) Code(refBase, altBase byte) (int32, error) {
	code := sm.codeByBase[baseIndex(refBase)][baseIndex(altBase)]
	if code < 0 {
		return 0, E(KindMalformedRecord, "substitution of a base for itself", nil)
	}
	return int32(code), nil
}
