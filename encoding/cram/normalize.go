// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// NoAlignmentStart and NoAlignmentReferenceName are the SAM sentinel
// values a record (or its mate) carries when it has no reference
// sequence, matching htsjdk's SAMRecord.NO_ALIGNMENT_START /
// NO_ALIGNMENT_REFERENCE_NAME (spec.md §4.6).
const (
	NoAlignmentStart         int32 = 0
	NoAlignmentReferenceName       = "*"
)

// Normalizer turns a slice's raw decoded records -- each of which may
// carry only a delta against its mate, or features against a reference
// rather than full bases -- into fully self-contained records, in the
// five passes net.sf.cram.encoding.reader.CramNormalizer's Java
// original runs in (spec.md §4.5, §9):
//
//  1. assign each record its batch-relative index and sequence name;
//  2. restore mate linkage (next/previous index, mate flags, template
//     size);
//  3. synthesize read names for records that did not carry one;
//  4. restore full base sequences from reference bases and read
//     features;
//  5. restore quality scores, honoring each record's own
//     quality-scores-preserved flag.
type Normalizer struct {
	RefBases           []byte // reference bases for this slice's reference sequence, absolute: RefBases[0] is reference position 1
	SubstitutionMatrix *SubstitutionMatrix
	SAMHeader          *sam.Header

	// StartCounter is the monotonic read counter's value before this
	// batch's records were assigned indices (spec.md §9's "threaded
	// mutable counter"). Callers carry this across batches within one
	// decode session; Normalize advances it by len(records).
	StartCounter int64
}

// Normalize runs all five passes over records in place, returning the
// same slice for convenience. It advances n.StartCounter by
// len(records) so a subsequent call (on the next slice) continues the
// monotonic read-index sequence.
func (n *Normalizer) Normalize(records []*Record) ([]*Record, error) {
	startCounter := n.StartCounter
	n.assignIndices(records, startCounter)
	if err := n.restoreMates(records, startCounter); err != nil {
		return nil, err
	}
	synthesizeNames(records)
	if err := n.restoreBases(records); err != nil {
		return nil, err
	}
	n.restoreQualities(records)
	n.StartCounter = startCounter + int64(len(records))
	return records, nil
}

// assignIndices gives each record its 1-based read index in the
// session-wide monotonic counter (record.index = ++counter, starting
// from startCounter) and
// resolves its sequence name from the SAM header, or the no-alignment
// sentinel name for an unmapped-reference record (spec.md §4.6 step 1).
func (n *Normalizer) assignIndices(records []*Record, startCounter int64) {
	for i, r := range records {
		r.index = startCounter + int64(i) + 1
		if r.SequenceID < 0 {
			r.SequenceName = NoAlignmentReferenceName
			r.AlignmentStart = NoAlignmentStart
			continue
		}
		if n.SAMHeader != nil {
			refs := n.SAMHeader.Refs()
			if int(r.SequenceID) < len(refs) {
				r.SequenceName = refs[r.SequenceID].Name()
			}
		}
	}
}

// restoreMates resolves each non-detached, multi-fragment record's
// RecordsToNextFragment chain into a next/previous batch index, and
// mirrors mate-unmapped/mate-negative-strand flags, mate sequence id,
// mate alignment start and template size onto both ends of the pair
// (spec.md §4.6 step 2, `net.sf.cram.build.CramNormalizer.normalize`).
func (n *Normalizer) restoreMates(records []*Record, startCounter int64) error {
	for i, r := range records {
		if !r.IsMultiFragment() || r.IsDetached() {
			r.RecordsToNextFragment = -1
			r.next, r.hasNext = 0, false
			r.previous, r.hasPrevious = 0, false
			continue
		}
		if !r.HasMateDownstream() {
			continue
		}
		j := r.index + int64(r.RecordsToNextFragment) - startCounter
		if j <= int64(i) || j >= int64(len(records)) {
			return E(KindMalformedRecord, fmt.Sprintf("mate chain index %d out of range", j), nil)
		}
		downMate := records[j]
		r.setNext(int32(j))
		downMate.setPrevious(int32(i))

		r.MateAlignmentStart = downMate.AlignmentStart
		r.setMateUnmapped(downMate.IsUnmapped())
		r.setMateNegativeStrand(downMate.IsNegativeStrand())
		r.MateSequenceID = downMate.SequenceID
		if r.MateSequenceID < 0 {
			r.MateAlignmentStart = NoAlignmentStart
		}

		downMate.MateAlignmentStart = r.AlignmentStart
		downMate.setMateUnmapped(r.IsUnmapped())
		downMate.setMateNegativeStrand(r.IsNegativeStrand())
		downMate.MateSequenceID = r.SequenceID
		if downMate.MateSequenceID < 0 {
			downMate.MateAlignmentStart = NoAlignmentStart
		}

		computeInsertSize(r, downMate)
	}
	return nil
}

// computeInsertSize applies the SAM TLEN convention: the leftmost
// mapped mate of the pair gets the positive distance to the rightmost
// mapped base of the pair, the other mate gets its negation; mates on
// different (or no) reference get zero (spec.md §4.6 step 2).
func computeInsertSize(a, b *Record) {
	if a.IsUnmapped() || b.IsUnmapped() || a.SequenceID != b.SequenceID || a.SequenceID < 0 {
		a.TemplateSize, b.TemplateSize = 0, 0
		return
	}
	aEnd := a.AlignmentStart + a.ReadLength
	bEnd := b.AlignmentStart + b.ReadLength
	leftmost, rightmost := a, b
	if b.AlignmentStart < a.AlignmentStart {
		leftmost, rightmost = b, a
	}
	right := aEnd
	if bEnd > right {
		right = bEnd
	}
	size := right - leftmost.AlignmentStart
	leftmost.TemplateSize = size
	rightmost.TemplateSize = -size
}

// synthesizeNames assigns a positional name ("<counter>") to any
// record that did not carry a preserved read name, propagating the
// same synthesized name to both mates of a pair so they remain linked
// in downstream tools that group by name (spec.md §4.6 step 3).
func synthesizeNames(records []*Record) {
	for _, r := range records {
		if len(r.ReadName) > 0 {
			continue
		}
		name := []byte(fmt.Sprintf("%d", r.index))
		r.ReadName = name
		if r.hasNext {
			records[r.next].ReadName = name
		}
		if r.hasPrevious {
			records[r.previous].ReadName = name
		}
	}
}

// restoreBases expands each mapped record's read features against the
// reference into a full base sequence (spec.md §4.6 step 4,
// `CramNormalizer.restoreReadBases`).
func (n *Normalizer) restoreBases(records []*Record) error {
	for _, r := range records {
		if r.IsUnmapped() {
			continue
		}
		bases, err := n.expandBases(r)
		if err != nil {
			return err
		}
		r.Bases = bases
	}
	return nil
}

// refBaseAt returns the absolute reference base at 0-based position
// pos, or 'N' if pos falls outside the fetched reference window.
func (n *Normalizer) refBaseAt(pos int32) byte {
	if pos >= 0 && int(pos) < len(n.RefBases) {
		return n.RefBases[pos]
	}
	return 'N'
}

// expandBases mirrors net.sf.cram.build.CramNormalizer.restoreReadBases
// exactly: a record with no read features is a direct reference copy;
// otherwise two cursors (posInRead, 1-based; posInSeq, 0-based from
// alignmentStart-1) walk the feature list in position order, copying
// reference bases through the gap before each feature and then
// applying it. Insertion/SoftClip/InsertBase advance only posInRead
// (they add bases absent from the reference); Deletion advances only
// posInSeq (it consumes reference without consuming read); Substitution
// advances both by one. RefSkip/HardClip/Padding/BaseQualityScore do
// not themselves move either cursor here -- matching the Java original,
// which has no base-array case for them at all; their effect (if any)
// on alignment span bookkeeping is a concern of callers that compute
// CIGARs, not of this base array.
func (n *Normalizer) expandBases(r *Record) ([]byte, error) {
	bases := make([]byte, r.ReadLength)
	alignmentStart := r.AlignmentStart - 1 // 0-based into RefBases

	if len(r.ReadFeatures) == 0 {
		for i := range bases {
			bases[i] = n.refBaseAt(alignmentStart + int32(i))
		}
		return bases, nil
	}

	posInRead := int32(1)
	posInSeq := int32(0)

	for fi := range r.ReadFeatures {
		f := &r.ReadFeatures[fi]
		for posInRead < f.Position {
			if int(posInRead-1) >= len(bases) {
				return nil, E(KindMalformedRecord, "read feature position out of range", nil)
			}
			bases[posInRead-1] = n.refBaseAt(alignmentStart + posInSeq)
			posInRead++
			posInSeq++
		}

		switch f.Operator {
		case FeatureSubstitution:
			if int(posInRead-1) >= len(bases) {
				return nil, E(KindMalformedRecord, "substitution position out of range", nil)
			}
			refBase := n.refBaseAt(alignmentStart + posInSeq)
			alt, err := n.SubstitutionMatrix.Base(refBase, f.Code)
			if err != nil {
				return nil, err
			}
			f.RefBase = refBase
			f.Base = alt
			bases[posInRead-1] = alt
			posInRead++
			posInSeq++
		case FeatureInsertion, FeatureSoftClip:
			for _, b := range f.Bases {
				if int(posInRead-1) >= len(bases) {
					return nil, E(KindMalformedRecord, "insertion position out of range", nil)
				}
				bases[posInRead-1] = b
				posInRead++
			}
		case FeatureInsertBase:
			if int(posInRead-1) >= len(bases) {
				return nil, E(KindMalformedRecord, "insert-base position out of range", nil)
			}
			bases[posInRead-1] = f.Base
			posInRead++
		case FeatureDeletion:
			posInSeq += f.Length
		case FeatureRefSkip, FeatureHardClip, FeaturePadding, FeatureBaseQualityScore, FeatureReadBase:
			// No cursor movement: quality-only and clip/pad/skip
			// features carry their own length/quality payload but do
			// not themselves occupy or consume a base-array slot here.
		default:
			return nil, E(KindMalformedRecord, "unknown read feature operator", nil)
		}
	}
	for posInRead <= r.ReadLength {
		if int(posInRead-1) >= len(bases) {
			return nil, E(KindMalformedRecord, "read length exceeds base array", nil)
		}
		bases[posInRead-1] = n.refBaseAt(alignmentStart + posInSeq)
		posInRead++
		posInSeq++
	}

	// ReadBase has precedence over whatever the reference/feature walk
	// wrote at its position (spec.md §4.6 step 4, second pass).
	for _, f := range r.ReadFeatures {
		if f.Operator != FeatureReadBase {
			continue
		}
		pos := f.Position - 1
		if pos < 0 || int(pos) >= len(bases) {
			return nil, E(KindMalformedRecord, "read base position out of range", nil)
		}
		bases[pos] = f.Base
	}

	for i, b := range bases {
		bases[i] = normalizeBase(b)
	}
	return bases, nil
}

// normalizeBase canonicalizes a base to uppercase IUPAC, mapping
// anything else to 'N' (spec.md §4.6 step 4, `Utils.normalizeBase`).
func normalizeBase(b byte) byte {
	switch b {
	case 'a', 'A':
		return 'A'
	case 'c', 'C':
		return 'C'
	case 'g', 'G':
		return 'G'
	case 't', 'T':
		return 'T'
	case 'n', 'N':
		return 'N'
	case 'u', 'U':
		return 'U'
	case 'm', 'M':
		return 'M'
	case 'r', 'R':
		return 'R'
	case 'w', 'W':
		return 'W'
	case 's', 'S':
		return 'S'
	case 'y', 'Y':
		return 'Y'
	case 'k', 'K':
		return 'K'
	case 'v', 'V':
		return 'V'
	case 'h', 'H':
		return 'H'
	case 'd', 'D':
		return 'D'
	case 'b', 'B':
		return 'B'
	default:
		return 'N'
	}
}

// restoreQualities fills each record's Qualities slice. When a record's
// quality scores were preserved (its own flag, matching the Java
// original's per-record isForcePreserveQualityScores()), a missing
// quality series is never expected; existing sentinel "-1" ("no call")
// entries are replaced with a fixed default score instead. Otherwise a
// record that opted out of quality preservation gets an
// all-default-score array, overwritten at the positions named by
// BaseQualityScore/ReadBase features (spec.md §4.6 step 5).
const defaultQualityScore = int8('?' - '!') // 30, matching CramNormalizer's default

func (n *Normalizer) restoreQualities(records []*Record) {
	for _, r := range records {
		if r.QualityScoresPreserved() {
			for i, q := range r.Qualities {
				if q == -1 {
					r.Qualities[i] = defaultQualityScore
				}
			}
			continue
		}
		q := make([]int8, len(r.Bases))
		for i := range q {
			q[i] = defaultQualityScore
		}
		for _, f := range r.ReadFeatures {
			switch f.Operator {
			case FeatureBaseQualityScore, FeatureReadBase:
				pos := f.Position - 1
				if pos < 0 || int(pos) >= len(q) {
					continue
				}
				q[pos] = f.Quality
			}
		}
		r.Qualities = q
	}
}
