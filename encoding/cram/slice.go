// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"io"

	"github.com/singerma/cramtools/encoding/cram/bitio"
	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// SliceHeader is the fixed-layout prefix of a slice: which reference
// region it covers, how many records and blocks it holds, and (for
// single-reference slices) the reference MD5 used to validate the
// ReferenceSource this decoder was given (spec.md §4.5).
type SliceHeader struct {
	ReferenceSequenceID int32
	AlignmentStart      int32
	AlignmentSpan       int32
	NumRecords          int32
	RecordCounter       int64
	NumBlocks           int32
	ContentIDs          []int32
	RefMD5              [16]byte
}

// Slice is a fully parsed slice: its header, decompressed core bit
// stream, and one ExternalBuffer per content id its blocks declared.
type Slice struct {
	Header         SliceHeader
	Core           *bitio.Reader
	ExternalBlocks map[int32]*ExternalBuffer
}

// ReadSliceHeader parses a slice header block's decompressed payload.
func ReadSliceHeader(data []byte) (*SliceHeader, error) {
	c := itf8.NewCursor(data)
	h := &SliceHeader{}
	var err error
	if h.ReferenceSequenceID, err = c.ReadSigned(); err != nil {
		return nil, E(KindTruncatedStream, "slice ref seq id", err)
	}
	if h.AlignmentStart, err = c.ReadSigned(); err != nil {
		return nil, E(KindTruncatedStream, "slice alignment start", err)
	}
	if h.AlignmentSpan, err = c.ReadSigned(); err != nil {
		return nil, E(KindTruncatedStream, "slice alignment span", err)
	}
	if h.NumRecords, err = c.ReadSigned(); err != nil {
		return nil, E(KindTruncatedStream, "slice num records", err)
	}
	counter, err := c.ReadUnsigned()
	if err != nil {
		return nil, E(KindTruncatedStream, "slice record counter", err)
	}
	h.RecordCounter = int64(counter)
	if h.NumBlocks, err = c.ReadSigned(); err != nil {
		return nil, E(KindTruncatedStream, "slice num blocks", err)
	}
	n, err := c.ReadUnsigned()
	if err != nil {
		return nil, E(KindTruncatedStream, "slice content id count", err)
	}
	h.ContentIDs = make([]int32, n)
	for i := range h.ContentIDs {
		if h.ContentIDs[i], err = c.ReadSigned(); err != nil {
			return nil, E(KindTruncatedStream, "slice content ids", err)
		}
	}
	for i := range h.RefMD5 {
		b, err := c.ReadByte()
		if err != nil {
			return nil, E(KindTruncatedStream, "slice ref md5", err)
		}
		h.RefMD5[i] = b
	}
	return h, nil
}

// ReadSlice reads the slice header block and the number of subsequent
// blocks that header declares, splitting them into the core bit stream
// and one ExternalBuffer per content id.
func ReadSlice(r io.Reader) (*Slice, error) {
	headerBlock, err := ReadBlock(r)
	if err != nil {
		return nil, err
	}
	if headerBlock.ContentType != ContentSliceHeader {
		return nil, E(KindMalformedStream, "expected slice header block", nil)
	}
	header, err := ReadSliceHeader(headerBlock.Data)
	if err != nil {
		return nil, err
	}

	s := &Slice{Header: *header, ExternalBlocks: map[int32]*ExternalBuffer{}}
	for i := int32(0); i < header.NumBlocks; i++ {
		b, err := ReadBlock(r)
		if err != nil {
			return nil, err
		}
		switch b.ContentType {
		case ContentCore:
			s.Core = bitio.NewReader(b.Data)
		case ContentExternal:
			s.ExternalBlocks[b.ContentID] = NewExternalBuffer(b.Data)
		default:
			return nil, E(KindMalformedStream, "unexpected slice block content type", nil)
		}
	}
	if s.Core == nil {
		s.Core = bitio.NewReader(nil)
	}
	return s, nil
}

// environment bundles this slice's streams into the shape codec
// dispatch expects.
func (s *Slice) environment() *Environment {
	return &Environment{Core: s.Core, External: s.ExternalBlocks}
}
