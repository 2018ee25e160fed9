// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

// Read feature operator codes, as stored in the FC data series
// (spec.md §4.5).
const (
	FeatureSubstitution     = 'X'
	FeatureInsertion        = 'I'
	FeatureDeletion         = 'D'
	FeatureInsertBase       = 'i'
	FeatureSoftClip         = 'S'
	FeatureHardClip         = 'H'
	FeaturePadding          = 'P'
	FeatureRefSkip          = 'N'
	FeatureBaseQualityScore = 'Q'
	FeatureReadBase         = 'B'
)

// ReadFeature is one entry in a record's read-feature list: a single
// tagged struct rather than an interface with ten implementations,
// since every feature shares the same (position, operator) header and
// only its payload fields vary (spec.md §3's ReadFeature, §9's
// redesign note preferring a closed representation to runtime
// polymorphism).
type ReadFeature struct {
	Operator byte
	Position int32 // 1-based offset into the read this feature applies at

	Base    byte   // ReadBase, InsertBase
	Bases   []byte // Insertion, SoftClip
	Length  int32  // Deletion, RefSkip, Padding, HardClip
	Code    int32  // Substitution: substitution matrix code
	Quality int8   // BaseQualityScore, ReadBase
	RefBase byte   // Substitution: reference base at this position, for matrices keyed by ref base
}

// readFeatures decodes a record's FN-counted list of read features from
// the series codecs named in the compression header, in the order
// spec.md §4.5 lists: feature code, position delta, then operator-
// specific payload.
func readFeatures(env *Environment, h *CompressionHeader, count int32, refBases func(pos int32) byte) ([]ReadFeature, error) {
	if count == 0 {
		return nil, nil
	}
	features := make([]ReadFeature, count)
	var pos int32
	for i := range features {
		codeByte, err := h.ByteSeries[SeriesReadFeatureCode].ReadByte(env)
		if err != nil {
			return nil, err
		}
		delta, err := h.IntSeries[SeriesReadFeaturePosition].ReadInt(env)
		if err != nil {
			return nil, err
		}
		pos += delta
		f := ReadFeature{Operator: codeByte, Position: pos}

		switch f.Operator {
		case FeatureSubstitution:
			code, err := h.IntSeries[SeriesSubstitutionCode].ReadInt(env)
			if err != nil {
				return nil, err
			}
			f.Code = code
			if refBases != nil {
				f.RefBase = refBases(pos)
			}
		case FeatureInsertion:
			bases, err := h.ByteArraySeries[SeriesInsertionBases].ReadByteArray(env)
			if err != nil {
				return nil, err
			}
			f.Bases = bases
		case FeatureDeletion:
			length, err := h.IntSeries[SeriesDeletionLength].ReadInt(env)
			if err != nil {
				return nil, err
			}
			f.Length = length
		case FeatureInsertBase:
			b, err := h.ByteSeries[SeriesBase].ReadByte(env)
			if err != nil {
				return nil, err
			}
			f.Base = b
		case FeatureSoftClip:
			bases, err := h.ByteArraySeries[SeriesSoftClipBases].ReadByteArray(env)
			if err != nil {
				return nil, err
			}
			f.Bases = bases
		case FeatureHardClip:
			length, err := h.IntSeries[SeriesHardClipLength].ReadInt(env)
			if err != nil {
				return nil, err
			}
			f.Length = length
		case FeaturePadding:
			length, err := h.IntSeries[SeriesPaddingLength].ReadInt(env)
			if err != nil {
				return nil, err
			}
			f.Length = length
		case FeatureRefSkip:
			length, err := h.IntSeries[SeriesRefSkipLength].ReadInt(env)
			if err != nil {
				return nil, err
			}
			f.Length = length
		case FeatureBaseQualityScore:
			q, err := readQualityScore(env, h)
			if err != nil {
				return nil, err
			}
			f.Quality = q
		case FeatureReadBase:
			b, err := h.ByteSeries[SeriesBase].ReadByte(env)
			if err != nil {
				return nil, err
			}
			q, err := readQualityScore(env, h)
			if err != nil {
				return nil, err
			}
			f.Base = b
			f.Quality = q
		default:
			return nil, E(KindMalformedRecord, "unknown read feature operator", nil)
		}
		features[i] = f
	}
	return features, nil
}

func readQualityScore(env *Environment, h *CompressionHeader) (int8, error) {
	v, err := h.IntSeries[SeriesBaseQuality].ReadInt(env)
	if err != nil {
		return 0, err
	}
	return int8(v), nil
}
