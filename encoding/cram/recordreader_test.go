package cram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalHeader returns a CompressionHeader with every series the
// record reader touches bound to a simple EXTERNAL codec, each reading
// from its own content id and holding values for two records, so a test
// can drive readRecord without building real encoding descriptors for
// every series.
func buildMinimalHeader() (*CompressionHeader, map[int32]*ExternalBuffer) {
	h := &CompressionHeader{
		IntSeries:       map[DataSeries]IntSeriesCodec{},
		ByteSeries:      map[DataSeries]ByteSeriesCodec{},
		ByteArraySeries: map[DataSeries]ByteArraySeriesCodec{},
		TagEncodings:    map[int32]*Descriptor{},
	}
	ext := map[int32]*ExternalBuffer{}
	id := int32(0)
	bindInt := func(series DataSeries, values ...int32) {
		var data []byte
		for _, v := range values {
			data = appendITF8Signed(data, v)
		}
		ext[id] = NewExternalBuffer(data)
		h.IntSeries[series] = &externalIntCodec{contentID: id}
		id++
	}
	bindInt(SeriesBAMFlags, 0, 0)
	bindInt(SeriesCompressionFlags, 0, 0) // not detached, no mate downstream
	bindInt(SeriesReadLength, 4, 4)
	bindInt(SeriesAlignmentStartDelta, 100, 100)
	bindInt(SeriesReadGroup, -1, -1)
	bindInt(SeriesNumberOfReadFeatures, 0, 0)
	bindInt(SeriesMappingQuality, 30, 30)
	// No TagCount series bound: readTags treats that as "no tags".
	return h, ext
}

func TestReadRecordMinimal(t *testing.T) {
	h, ext := buildMinimalHeader()
	env := &Environment{External: ext}

	r, err := readRecord(env, h, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, r.ReadLength)
	assert.EqualValues(t, 100, r.AlignmentStart)
	assert.EqualValues(t, 30, r.MappingQuality)
	assert.Nil(t, r.ReadFeatures)
	assert.Nil(t, r.Tags)
}

func TestReadRecordAlignmentStartIsAbsoluteWithoutAPDelta(t *testing.T) {
	h, ext := buildMinimalHeader()
	h.Preservation.APSeriesDelta = false
	env := &Environment{External: ext}

	r, err := readRecord(env, h, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 100, r.AlignmentStart) // absolute value from the series, prevAlignmentStart ignored
}

func TestReadRecordAlignmentStartIsDeltaWhenConfigured(t *testing.T) {
	h, ext := buildMinimalHeader()
	h.Preservation.APSeriesDelta = true
	env := &Environment{External: ext}

	r, err := readRecord(env, h, 500)
	require.NoError(t, err)
	assert.EqualValues(t, 600, r.AlignmentStart) // 500 + 100 delta
}

// TestReadRecordReadNamesConsumedUnconditionally covers a non-detached,
// name-preserved record: readRecord must still consume its RN element,
// or the next record's read would pick up this one's leftover name.
func TestReadRecordReadNamesConsumedUnconditionally(t *testing.T) {
	h, ext := buildMinimalHeader()
	h.Preservation.ReadNamesPreserved = true
	rnContentID := int32(100)
	ext[rnContentID] = NewExternalBuffer([]byte("read-one\x00read-two\x00"))
	h.ByteArraySeries[SeriesReadName] = &byteArrayStopCodec{stop: 0, contentID: rnContentID}
	env := &Environment{External: ext}

	r1, err := readRecord(env, h, 0)
	require.NoError(t, err)
	assert.Equal(t, "read-one", string(r1.ReadName))

	r2, err := readRecord(env, h, 1)
	require.NoError(t, err)
	assert.Equal(t, "read-two", string(r2.ReadName))
}
