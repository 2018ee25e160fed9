// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"io"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

// ExternalBuffer is a sequential cursor over one slice's decompressed
// external block. CRAM's EXTERNAL encoding reads integers as ITF8 and
// bytes raw from whichever external block its descriptor names; several
// data series and the byte-array composites can share the same
// underlying block bytes, so each gets its own cursor over a common
// slice.
type ExternalBuffer struct {
	c *itf8.Cursor
}

// NewExternalBuffer returns a cursor over data.
func NewExternalBuffer(data []byte) *ExternalBuffer {
	return &ExternalBuffer{c: itf8.NewCursor(data)}
}

// ReadByte reads the next raw byte.
func (b *ExternalBuffer) ReadByte() (byte, error) {
	v, err := b.c.ReadByte()
	if err == io.ErrUnexpectedEOF {
		return 0, E(KindTruncatedStream, "external block", err)
	}
	return v, err
}

// ReadBytes reads the next n raw bytes.
func (b *ExternalBuffer) ReadBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		v, err := b.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadInt reads the next value as a signed ITF8, CRAM's wire format for
// an integer data series encoded EXTERNAL.
func (b *ExternalBuffer) ReadInt() (int32, error) {
	v, err := b.c.ReadSigned()
	if err != nil {
		return 0, E(KindTruncatedStream, "external block itf8", err)
	}
	return v, nil
}

// AtEnd reports whether every byte of the underlying block has been
// consumed.
func (b *ExternalBuffer) AtEnd() bool { return b.c.Done() }
