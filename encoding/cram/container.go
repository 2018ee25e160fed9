// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"io"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// ContainerHeader is a CRAM container's fixed-layout prefix: its total
// byte length, the reference and alignment span it covers, how many
// records and blocks it holds, and the landmarks used to seek directly
// to a slice (spec.md §4.5).
type ContainerHeader struct {
	Length             int32
	ReferenceSequenceID int32 // -1 unmapped, -2 multiple references
	AlignmentStart      int32
	AlignmentSpan       int32
	NumRecords          int32
	RecordCounter       int64
	BasesCount          int64
	NumBlocks           int32
	Landmarks           []int32
}

// eofMarkerLength is the length field of the zero-block container CRAM
// appends at end of stream (spec.md §6).
const eofMarkerLength = 15

// IsEOFMarker reports whether h is the terminal empty container every
// well-formed CRAM stream ends with.
func (h *ContainerHeader) IsEOFMarker() bool {
	return h.Length == eofMarkerLength && h.NumBlocks == 0 && h.NumRecords == 0
}

// ReadContainerHeader parses one container header from r.
func ReadContainerHeader(r io.Reader) (*ContainerHeader, error) {
	br := newByteCursorReader(r)
	var lenBuf [4]byte
	if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, E(KindTruncatedStream, "container length", err)
	}
	h := &ContainerHeader{
		Length: int32(lenBuf[0]) | int32(lenBuf[1])<<8 | int32(lenBuf[2])<<16 | int32(lenBuf[3])<<24,
	}

	var err error
	if h.ReferenceSequenceID, err = itf8.ReadSigned(br); err != nil {
		return nil, E(KindTruncatedStream, "container ref seq id", err)
	}
	if h.AlignmentStart, err = itf8.ReadSigned(br); err != nil {
		return nil, E(KindTruncatedStream, "container alignment start", err)
	}
	if h.AlignmentSpan, err = itf8.ReadSigned(br); err != nil {
		return nil, E(KindTruncatedStream, "container alignment span", err)
	}
	if h.NumRecords, err = itf8.ReadSigned(br); err != nil {
		return nil, E(KindTruncatedStream, "container num records", err)
	}
	counter, err := itf8.ReadUnsigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "container record counter", err)
	}
	h.RecordCounter = int64(counter)
	basesHi, err := itf8.ReadUnsigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "container bases count", err)
	}
	h.BasesCount = int64(basesHi)
	if h.NumBlocks, err = itf8.ReadSigned(br); err != nil {
		return nil, E(KindTruncatedStream, "container num blocks", err)
	}
	n, err := itf8.ReadUnsigned(br)
	if err != nil {
		return nil, E(KindTruncatedStream, "container landmark count", err)
	}
	h.Landmarks = make([]int32, n)
	for i := range h.Landmarks {
		if h.Landmarks[i], err = itf8.ReadSigned(br); err != nil {
			return nil, E(KindTruncatedStream, "container landmarks", err)
		}
	}
	return h, nil
}
