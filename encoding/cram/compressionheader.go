// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// PreservationMap carries the handful of container-wide flags stored
// alongside the per-series encodings (spec.md §4.2).
type PreservationMap struct {
	ReadNamesPreserved bool
	APSeriesDelta      bool // AP series stores deltas from the previous record's alignment start (the slice's start for a slice's first record), not absolute positions
	ReferenceRequired  bool
}

// CompressionHeader is the block every container opens with: a map
// from data series to the encoding descriptor used to decode it, a
// substitution matrix, a set of per-tag encodings, and the
// preservation flags above (spec.md §4.2).
type CompressionHeader struct {
	Preservation PreservationMap

	IntSeries       map[DataSeries]IntSeriesCodec
	ByteSeries      map[DataSeries]ByteSeriesCodec
	ByteArraySeries map[DataSeries]ByteArraySeriesCodec

	SubstitutionMatrix *SubstitutionMatrix

	// TagEncodings maps a tag token (two-character tag name and BAM
	// aux type packed into one int, per the SAM spec's own convention)
	// to the descriptor used to decode that tag's value bytes.
	TagEncodings map[int32]*Descriptor
}

var orderedDataSeries = []DataSeries{
	SeriesBAMFlags, SeriesCompressionFlags, SeriesReadLength, SeriesAlignmentStartDelta,
	SeriesReadGroup, SeriesMateFlags, SeriesMateSequenceID, SeriesMateAlignmentStart,
	SeriesTemplateSize, SeriesRecordsToNextFrag, SeriesNumberOfReadFeatures,
	SeriesReadFeatureCode, SeriesReadFeaturePosition, SeriesSubstitutionCode,
	SeriesDeletionLength, SeriesInsertionBases, SeriesSoftClipBases, SeriesHardClipLength,
	SeriesPaddingLength, SeriesRefSkipLength, SeriesBaseQuality, SeriesBase, SeriesReadName,
	SeriesMappingQuality, SeriesTagCount, SeriesTagIDs,
}

// ReadCompressionHeader parses the block's decompressed payload: the
// preservation map, the substitution matrix, the tag-id dictionary
// (read and discarded -- this decoder resolves tags by packed token,
// not position), then one encoding descriptor per data series named in
// orderedDataSeries, plus any number of per-tag descriptors.
func ReadCompressionHeader(data []byte) (*CompressionHeader, error) {
	c := itf8.NewCursor(data)
	h := &CompressionHeader{
		IntSeries:       map[DataSeries]IntSeriesCodec{},
		ByteSeries:      map[DataSeries]ByteSeriesCodec{},
		ByteArraySeries: map[DataSeries]ByteArraySeriesCodec{},
		TagEncodings:    map[int32]*Descriptor{},
	}

	if err := readPreservationMap(c, h); err != nil {
		return nil, err
	}

	sm, err := readSubstitutionMatrix(c)
	if err != nil {
		return nil, err
	}
	h.SubstitutionMatrix = sm

	if err := skipTagDictionary(c); err != nil {
		return nil, err
	}

	for _, series := range orderedDataSeries {
		d, err := ParseDescriptor(c)
		if err != nil {
			return nil, err
		}
		if err := h.bindSeries(series, d); err != nil {
			return nil, err
		}
	}

	n, err := c.ReadUnsigned()
	if err != nil {
		return nil, E(KindTruncatedStream, "compression header tag encoding count", err)
	}
	for i := uint32(0); i < n; i++ {
		token, err := c.ReadSigned()
		if err != nil {
			return nil, E(KindTruncatedStream, "compression header tag token", err)
		}
		d, err := ParseDescriptor(c)
		if err != nil {
			return nil, err
		}
		h.TagEncodings[token] = d
	}
	return h, nil
}

func (h *CompressionHeader) bindSeries(series DataSeries, d *Descriptor) error {
	switch {
	case byteArraySeries[series]:
		codec, err := NewByteArraySeriesCodec(d)
		if err != nil {
			return err
		}
		h.ByteArraySeries[series] = codec
	case byteSeries[series]:
		codec, err := NewByteSeriesCodec(d)
		if err != nil {
			return err
		}
		h.ByteSeries[series] = codec
	default:
		codec, err := NewIntSeriesCodec(d)
		if err != nil {
			return err
		}
		h.IntSeries[series] = codec
	}
	return nil
}

func readPreservationMap(c *itf8.Cursor, h *CompressionHeader) error {
	n, err := c.ReadUnsigned()
	if err != nil {
		return E(KindTruncatedStream, "preservation map count", err)
	}
	for i := uint32(0); i < n; i++ {
		var key [2]byte
		for j := range key {
			b, err := c.ReadByte()
			if err != nil {
				return E(KindTruncatedStream, "preservation map key", err)
			}
			key[j] = b
		}
		v, err := c.ReadByte()
		if err != nil {
			return E(KindTruncatedStream, "preservation map value", err)
		}
		switch string(key[:]) {
		case "RN":
			h.Preservation.ReadNamesPreserved = v != 0
		case "AP":
			h.Preservation.APSeriesDelta = v != 0
		case "RR":
			h.Preservation.ReferenceRequired = v != 0
		}
	}
	return nil
}

func skipTagDictionary(c *itf8.Cursor) error {
	n, err := c.ReadUnsigned()
	if err != nil {
		return E(KindTruncatedStream, "tag dictionary block count", err)
	}
	for i := uint32(0); i < n; i++ {
		size, err := c.ReadUnsigned()
		if err != nil {
			return E(KindTruncatedStream, "tag dictionary entry size", err)
		}
		for j := uint32(0); j < size; j++ {
			if _, err := c.ReadByte(); err != nil {
				return E(KindTruncatedStream, "tag dictionary entry", err)
			}
		}
	}
	return nil
}
