// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

// DataSeries names one of CRAM's fixed set of per-record data series,
// each carried by its own encoding descriptor in the compression
// header (spec.md §4.2). The two-letter spellings match the CRAM
// format's own content-id key convention.
type DataSeries string

const (
	SeriesBAMFlags             DataSeries = "BF" // read flags (SAM flags)
	SeriesCompressionFlags     DataSeries = "CF" // CRAM-specific per-record flags
	SeriesReadLength           DataSeries = "RL"
	SeriesAlignmentStartDelta  DataSeries = "AP"
	SeriesReadGroup            DataSeries = "RG"
	SeriesMateFlags            DataSeries = "MF"
	SeriesMateSequenceID       DataSeries = "NS"
	SeriesMateAlignmentStart   DataSeries = "NP"
	SeriesTemplateSize         DataSeries = "TS"
	SeriesRecordsToNextFrag    DataSeries = "NF"
	SeriesNumberOfReadFeatures DataSeries = "FN"
	SeriesReadFeatureCode      DataSeries = "FC"
	SeriesReadFeaturePosition  DataSeries = "FP"
	SeriesSubstitutionCode     DataSeries = "BS"
	SeriesDeletionLength       DataSeries = "DL"
	SeriesInsertionBases       DataSeries = "IN"
	SeriesSoftClipBases        DataSeries = "SC"
	SeriesHardClipLength       DataSeries = "HC"
	SeriesPaddingLength        DataSeries = "PD"
	SeriesRefSkipLength        DataSeries = "RS"
	SeriesBaseQuality          DataSeries = "QS"
	SeriesBase                 DataSeries = "BA"
	SeriesReadName             DataSeries = "RN"
	SeriesMappingQuality       DataSeries = "MQ"
	SeriesTagCount             DataSeries = "TC"
	SeriesTagIDs               DataSeries = "TN"
)

// byteArraySeries and byteSeries classify which data series carry
// variable-length byte arrays or single bytes, so compressionHeader
// knows which codec constructor to call for each descriptor it reads.
// Every series in neither map (SeriesSubstitutionCode included) is
// decoded as an integer; see compressionheader.go's bindSeries.
var byteArraySeries = map[DataSeries]bool{
	SeriesInsertionBases: true,
	SeriesSoftClipBases:  true,
	SeriesReadName:       true,
}

// byteSeries lists the series this decoder treats as single raw bytes
// rather than ITF8-width integers.
var byteSeries = map[DataSeries]bool{
	SeriesReadFeatureCode: true,
	SeriesBase:            true,
}
