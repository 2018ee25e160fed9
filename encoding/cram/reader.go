// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"context"
	"io"

	"github.com/grailbio/base/log"
)

// Config controls optional Reader behavior.
type Config struct {
	// RefMD5Strict, when true (the default), fails decoding a slice
	// whose reference MD5 does not match the configured
	// ReferenceSource. When false, a mismatch is logged and decoding
	// continues, trusting the fetched bases over the embedded MD5.
	RefMD5Strict bool
}

// DefaultConfig returns the Config new Readers use when none is given.
func DefaultConfig() Config {
	return Config{RefMD5Strict: true}
}

// Reader decodes a CRAM byte stream into sam.Record values, container
// by container, slice by slice.
type Reader struct {
	r      io.Reader
	config Config

	Header *FileHeader
	refs   *referenceCache

	readCounter int64
	done        bool
}

// NewReader opens a CRAM stream, reading and validating the file
// header. refSource supplies reference bases for read-feature
// expansion. It may be nil: no reference is then fetched or
// MD5-checked, and every base that would come from the reference is
// filled with 'N'.
func NewReader(r io.Reader, refSource ReferenceSource, config Config) (*Reader, error) {
	h, err := ReadFileHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		r:      r,
		config: config,
		Header: h,
		refs:   newReferenceCache(refSource),
	}, nil
}

// ReadContainer decodes the next container's every slice into records,
// fully normalized, or returns io.EOF once the stream's terminal empty
// container has been consumed.
func (rd *Reader) ReadContainer(ctx context.Context) ([]*Record, error) {
	if rd.done {
		return nil, io.EOF
	}
	ch, err := ReadContainerHeader(rd.r)
	if err != nil {
		if err == io.EOF {
			rd.done = true
			return nil, io.EOF
		}
		return nil, err
	}
	if ch.IsEOFMarker() {
		rd.done = true
		return nil, io.EOF
	}

	headerBlock, err := ReadBlock(rd.r)
	if err != nil {
		return nil, err
	}
	if headerBlock.ContentType != ContentCompressionHeader {
		return nil, E(KindMalformedStream, "expected compression header block", nil)
	}
	compressionHeader, err := ReadCompressionHeader(headerBlock.Data)
	if err != nil {
		return nil, err
	}

	// The landmark table's length is the slice count; its byte offsets
	// matter only for random access via an index, which this decoder
	// does not build -- it reads every slice of every container in
	// order, so it never needs to seek to one.
	var all []*Record
	for range ch.Landmarks {
		slice, err := ReadSlice(rd.r)
		if err != nil {
			return nil, err
		}
		records, err := rd.decodeSlice(ctx, slice, compressionHeader)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func (rd *Reader) decodeSlice(ctx context.Context, slice *Slice, ch *CompressionHeader) ([]*Record, error) {
	env := slice.environment()

	records := make([]*Record, slice.Header.NumRecords)
	start := slice.Header.AlignmentStart // AP-delta resets at each slice boundary (spec.md §4.5)
	for i := range records {
		r, err := readRecord(env, ch, start)
		if err != nil {
			return nil, err
		}
		r.SequenceID = slice.Header.ReferenceSequenceID
		start = r.AlignmentStart
		records[i] = r
	}

	n := &Normalizer{
		SubstitutionMatrix: ch.SubstitutionMatrix,
		SAMHeader:          rd.Header.SAMHeader,
		StartCounter:       rd.readCounter,
	}
	if slice.Header.ReferenceSequenceID >= 0 && rd.refs.source != nil {
		bases, err := rd.refs.get(ctx, rd.Header.SAMHeader, slice.Header.ReferenceSequenceID)
		if err != nil {
			return nil, err
		}
		if err := rd.refs.checkMD5(slice.Header.ReferenceSequenceID, slice.Header.RefMD5); err != nil {
			if rd.config.RefMD5Strict {
				return nil, err
			}
			log.Error.Printf("cram: slice at %d: %v (continuing: RefMD5Strict disabled)", slice.Header.AlignmentStart, err)
		}
		n.RefBases = bases
	}

	out, err := n.Normalize(records)
	if err != nil {
		return nil, err
	}
	rd.readCounter = n.StartCounter
	return out, nil
}
