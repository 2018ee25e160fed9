// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

// readRecord decodes one record's series-coded fields in the fixed
// order CRAM lays them out (spec.md §4.5): flags, compression flags,
// read length, alignment start, read group, read name (if preserved),
// then (if detached) full mate information -- including a fallback
// read name consumption for the case where it wasn't already read
// above -- or (if a mate lies downstream) the records-to-next-fragment
// count, then read features, mapping quality, per-base quality scores
// (if preserved), and tags.
func readRecord(env *Environment, h *CompressionHeader, prevAlignmentStart int32) (*Record, error) {
	r := &Record{}

	flags, err := h.IntSeries[SeriesBAMFlags].ReadInt(env)
	if err != nil {
		return nil, err
	}
	r.Flags = uint16(flags)

	cflags, err := h.IntSeries[SeriesCompressionFlags].ReadInt(env)
	if err != nil {
		return nil, err
	}
	r.CompressionFlags = uint16(cflags)

	readLength, err := h.IntSeries[SeriesReadLength].ReadInt(env)
	if err != nil {
		return nil, err
	}
	r.ReadLength = readLength

	apDelta, err := h.IntSeries[SeriesAlignmentStartDelta].ReadInt(env)
	if err != nil {
		return nil, err
	}
	if h.Preservation.APSeriesDelta {
		r.AlignmentStart = prevAlignmentStart + apDelta
	} else {
		r.AlignmentStart = apDelta
	}

	readGroup, err := h.IntSeries[SeriesReadGroup].ReadInt(env)
	if err != nil {
		return nil, err
	}
	r.ReadGroup = readGroup

	var nameRead bool
	if h.Preservation.ReadNamesPreserved {
		name, err := h.ByteArraySeries[SeriesReadName].ReadByteArray(env)
		if err != nil {
			return nil, err
		}
		r.ReadName = name
		nameRead = true
	}

	if r.IsDetached() {
		if !nameRead && h.Preservation.ReadNamesPreserved {
			name, err := h.ByteArraySeries[SeriesReadName].ReadByteArray(env)
			if err != nil {
				return nil, err
			}
			r.ReadName = name
		}
		mateFlags, err := h.IntSeries[SeriesMateFlags].ReadInt(env)
		if err != nil {
			return nil, err
		}
		r.MateFlags = uint8(mateFlags)
		mateSeqID, err := h.IntSeries[SeriesMateSequenceID].ReadInt(env)
		if err != nil {
			return nil, err
		}
		r.MateSequenceID = mateSeqID
		mateStart, err := h.IntSeries[SeriesMateAlignmentStart].ReadInt(env)
		if err != nil {
			return nil, err
		}
		r.MateAlignmentStart = mateStart
		templateSize, err := h.IntSeries[SeriesTemplateSize].ReadInt(env)
		if err != nil {
			return nil, err
		}
		r.TemplateSize = templateSize
	} else if r.HasMateDownstream() {
		recordsToNext, err := h.IntSeries[SeriesRecordsToNextFrag].ReadInt(env)
		if err != nil {
			return nil, err
		}
		r.RecordsToNextFragment = recordsToNext
	}

	numFeatures, err := h.IntSeries[SeriesNumberOfReadFeatures].ReadInt(env)
	if err != nil {
		return nil, err
	}
	features, err := readFeatures(env, h, numFeatures, nil)
	if err != nil {
		return nil, err
	}
	r.ReadFeatures = features

	mq, err := h.IntSeries[SeriesMappingQuality].ReadInt(env)
	if err != nil {
		return nil, err
	}
	r.MappingQuality = uint8(mq)

	if r.UnknownBases() {
		r.Bases = nil
	}

	if r.QualityScoresPreserved() {
		q := make([]int8, r.ReadLength)
		for i := range q {
			v, err := h.IntSeries[SeriesBaseQuality].ReadInt(env)
			if err != nil {
				return nil, err
			}
			q[i] = int8(v)
		}
		r.Qualities = q
	}

	if err := readTags(env, h, r); err != nil {
		return nil, err
	}

	return r, nil
}

// readTags decodes the record's TC-counted list of (tag token, value
// bytes) pairs. Tag value interpretation (numeric types, arrays) is
// left to callers; this layer only resolves the per-tag encoding and
// stores the raw decoded bytes.
func readTags(env *Environment, h *CompressionHeader, r *Record) error {
	tagCountCodec, ok := h.IntSeries[SeriesTagCount]
	if !ok {
		return nil
	}
	count, err := tagCountCodec.ReadInt(env)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	r.Tags = make(map[int32][]byte, count)
	for i := int32(0); i < count; i++ {
		token, err := h.IntSeries[SeriesTagIDs].ReadInt(env)
		if err != nil {
			return err
		}
		d, ok := h.TagEncodings[token]
		if !ok {
			return E(KindMalformedRecord, "no encoding for tag token", nil)
		}
		codec, err := NewByteArraySeriesCodec(d)
		if err != nil {
			return err
		}
		value, err := codec.ReadByteArray(env)
		if err != nil {
			return err
		}
		r.Tags[token] = value
	}
	return nil
}
