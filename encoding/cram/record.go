// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

// BAM-compatible read flags, stored in the BF data series (spec.md
// §4.5; bit meanings match the SAM specification).
const (
	FlagMultiFragment      = 1 << 0
	FlagProperPair         = 1 << 1
	FlagUnmapped           = 1 << 2
	FlagMateUnmapped       = 1 << 3
	FlagNegativeStrand     = 1 << 4
	FlagMateNegativeStrand = 1 << 5
	FlagFirstOfPair        = 1 << 6
	FlagLastOfPair         = 1 << 7
	FlagSecondary          = 1 << 8
	FlagFailedQC           = 1 << 9
	FlagDuplicate          = 1 << 10
	FlagSupplementary      = 1 << 11
)

// CRAM-specific per-record flags, stored in the CF data series
// (spec.md §4.5).
const (
	CompFlagQualityScoresPreserved = 1 << 0
	CompFlagDetached               = 1 << 1
	CompFlagHasMateDownstream      = 1 << 2
	CompFlagUnknownBases           = 1 << 3
)

// Record is one decoded CRAM alignment record. Mate linkage is
// resolved to a batch-relative slice index rather than a pointer: CRAM
// pairs can form long chains within a slice, and an index survives
// copying and (de)serializing a record batch independently of any
// other record, which a pointer would not (spec.md §4.5, §9).
type Record struct {
	Flags            uint16
	CompressionFlags uint16
	ReadGroup        int32
	SequenceID       int32
	AlignmentStart   int32
	ReadLength       int32

	// SequenceName is the reference sequence name resolved from the
	// SAM header during normalization, or the no-alignment sentinel
	// "*" for a record with no reference (spec.md §4.6 step 1).
	SequenceName string

	ReadName []byte

	// index is this record's 1-based position in the monotonic read
	// counter threaded across a decode session's batches, assigned by
	// the normalizer (spec.md §4.6 step 1, §9).
	index int64

	MateFlags          uint8
	MateSequenceID     int32
	MateAlignmentStart int32
	TemplateSize       int32

	RecordsToNextFragment int32

	ReadFeatures []ReadFeature
	Bases        []byte
	Qualities    []int8

	MappingQuality uint8

	Tags map[int32][]byte

	// next/previous are indices into the containing slice's record
	// batch, resolved by the normalizer's mate-restoration pass.
	// hasNext/hasPrevious report whether the index is meaningful; -1
	// is not itself a sentinel because a valid batch index can be 0.
	next        int32
	hasNext     bool
	previous    int32
	hasPrevious bool
}

func (r *Record) IsMultiFragment() bool      { return r.Flags&FlagMultiFragment != 0 }
func (r *Record) IsUnmapped() bool           { return r.Flags&FlagUnmapped != 0 }
func (r *Record) IsMateUnmapped() bool       { return r.Flags&FlagMateUnmapped != 0 }
func (r *Record) IsNegativeStrand() bool     { return r.Flags&FlagNegativeStrand != 0 }
func (r *Record) IsMateNegativeStrand() bool { return r.Flags&FlagMateNegativeStrand != 0 }
func (r *Record) IsFirstOfPair() bool        { return r.Flags&FlagFirstOfPair != 0 }
func (r *Record) IsLastOfPair() bool         { return r.Flags&FlagLastOfPair != 0 }

// Index returns the record's 1-based monotonic read index, assigned by
// the normalizer.
func (r *Record) Index() int64 { return r.index }

func (r *Record) setMateUnmapped(v bool) {
	if v {
		r.Flags |= FlagMateUnmapped
	} else {
		r.Flags &^= FlagMateUnmapped
	}
}

func (r *Record) setMateNegativeStrand(v bool) {
	if v {
		r.Flags |= FlagMateNegativeStrand
	} else {
		r.Flags &^= FlagMateNegativeStrand
	}
}

func (r *Record) IsDetached() bool          { return r.CompressionFlags&CompFlagDetached != 0 }
func (r *Record) HasMateDownstream() bool   { return r.CompressionFlags&CompFlagHasMateDownstream != 0 }
func (r *Record) QualityScoresPreserved() bool {
	return r.CompressionFlags&CompFlagQualityScoresPreserved != 0
}
func (r *Record) UnknownBases() bool { return r.CompressionFlags&CompFlagUnknownBases != 0 }

// NextIndex returns the batch-relative index of this record's next
// mate and whether one was resolved.
func (r *Record) NextIndex() (int32, bool) { return r.next, r.hasNext }

// PreviousIndex returns the batch-relative index of this record's
// previous mate and whether one was resolved.
func (r *Record) PreviousIndex() (int32, bool) { return r.previous, r.hasPrevious }

func (r *Record) setNext(idx int32)     { r.next, r.hasNext = idx, true }
func (r *Record) setPrevious(idx int32) { r.previous, r.hasPrevious = idx, true }
