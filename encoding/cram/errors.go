// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import "fmt"

// Kind classifies why a CRAM decode failed. Every decode error this
// package returns carries one of these, so callers can tell a short
// read apart from a corrupt one apart from a reference mismatch without
// string-matching error text.
type Kind string

const (
	// KindTruncatedStream means the underlying reader ran out of bytes
	// in the middle of a well-formed structure (a block, a record, a
	// bit-packed value).
	KindTruncatedStream Kind = "truncated_stream"
	// KindMalformedStream means the bytes present do not parse as valid
	// CRAM at all: a CRC mismatch, a codec that never matches its input.
	KindMalformedStream Kind = "malformed_stream"
	// KindUnsupportedEncoding means the container uses a codec, content
	// encoding, or compression method this decoder does not implement
	// (e.g. rANS, LZMA).
	KindUnsupportedEncoding Kind = "unsupported_encoding"
	// KindSymbolNotInAlphabet means a Huffman codebook has no code for
	// a value it was asked to encode.
	KindSymbolNotInAlphabet Kind = "symbol_not_in_alphabet"
	// KindValueOutOfRange means a fixed-width or Golomb codec was asked
	// to represent (or decoded) a value that does not fit its range.
	KindValueOutOfRange Kind = "value_out_of_range"
	// KindMalformedRecord means the record reconstruction logic itself
	// detected an inconsistency: a read feature past the end of a read,
	// a mate reference that does not resolve within its slice.
	KindMalformedRecord Kind = "malformed_record"
	// KindRefMD5Mismatch means a slice's reference MD5 does not match
	// the bases fetched from the configured ReferenceSource.
	KindRefMD5Mismatch Kind = "ref_md5_mismatch"
	// KindUnknownSequence means a slice or record names a reference
	// sequence id not present in the file header's SAM header.
	KindUnknownSequence Kind = "unknown_sequence"
)

// Error is the error type every exported decode operation in this
// package returns. It is always fatal at container granularity: a CRAM
// container is either fully decoded or discarded, there is no partial
// recovery.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cram: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("cram: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// E constructs an *Error. It exists so call sites read like
// E(KindTruncatedStream, "slice header", err) rather than a five-field
// struct literal.
func E(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind carried by err, walking Unwrap chains, or ""
// if neither err nor anything in its chain is a *Error.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
