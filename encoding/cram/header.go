// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"io"

	"github.com/grailbio/hts/sam"
)

// fileMagic is the four-byte "CRAM" identifier every CRAM file starts
// with (spec.md §6).
var fileMagic = [4]byte{'C', 'R', 'A', 'M'}

// FileHeader is the 26-byte fixed header plus the embedded SAM header
// that opens every CRAM file (spec.md §6).
type FileHeader struct {
	MajorVersion byte
	MinorVersion byte
	ID           [20]byte // free-form file identifier, zero-padded
	SAMHeader    *sam.Header
}

// ReadFileHeader parses the fixed 26-byte preamble and the SAM header
// text that follows it, prefixed by its length as a 4-byte
// little-endian integer. Major versions other than 2 and 3 fail with
// KindUnsupportedEncoding.
func ReadFileHeader(r io.Reader) (*FileHeader, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, E(KindTruncatedStream, "file magic", err)
	}
	if magic != fileMagic {
		return nil, E(KindMalformedStream, "file magic mismatch", nil)
	}
	var version [2]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, E(KindTruncatedStream, "file version", err)
	}
	if version[0] != 2 && version[0] != 3 {
		return nil, E(KindUnsupportedEncoding, "cram major version", nil)
	}
	h := &FileHeader{MajorVersion: version[0], MinorVersion: version[1]}
	if _, err := io.ReadFull(r, h.ID[:]); err != nil {
		return nil, E(KindTruncatedStream, "file id", err)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, E(KindTruncatedStream, "sam header length", err)
	}
	n := int32(lenBuf[0]) | int32(lenBuf[1])<<8 | int32(lenBuf[2])<<16 | int32(lenBuf[3])<<24
	if n < 0 {
		return nil, E(KindMalformedStream, "negative sam header length", nil)
	}
	text := make([]byte, n)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, E(KindTruncatedStream, "sam header text", err)
	}
	samHeader, err := sam.NewHeader(nil, nil)
	if err != nil {
		return nil, E(KindMalformedStream, "sam header", err)
	}
	if err := samHeader.UnmarshalText(text); err != nil {
		return nil, E(KindMalformedStream, "sam header text", err)
	}
	h.SAMHeader = samHeader
	return h, nil
}
