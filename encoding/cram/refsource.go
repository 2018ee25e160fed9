// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"context"
	"sync"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/base/file"

	"github.com/singerma/cramtools/encoding/fasta"
)

// ReferenceSource supplies the reference bases a CRAM decoder needs to
// expand read features into full sequences (spec.md §4.5, §5).
type ReferenceSource interface {
	// GetReferenceBases returns the full sequence for ref, optionally
	// upper-cased. Implementations may cache the result.
	GetReferenceBases(ctx context.Context, ref *sam.Reference, upperCase bool) ([]byte, error)
}

// FastaReferenceSource supplies reference bases by parsing a whole
// FASTA file into memory once and serving every subsequent lookup from
// it. It opens the FASTA through grailbio/base/file.Open, so a path of
// the form "s3://bucket/key" works transparently alongside a local
// path (spec.md §5's input-stream contract generalized to reference
// files).
type FastaReferenceSource struct {
	path string

	mu sync.Mutex
	fa fasta.Fasta
}

// NewFastaReferenceSource returns a source backed by the FASTA file at
// path.
func NewFastaReferenceSource(path string) *FastaReferenceSource {
	return &FastaReferenceSource{path: path}
}

// GetReferenceBases returns ref's full sequence, parsing and caching
// the underlying FASTA file on first use.
func (f *FastaReferenceSource) GetReferenceBases(ctx context.Context, ref *sam.Reference, upperCase bool) ([]byte, error) {
	fa, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	n, err := fa.Len(ref.Name())
	if err != nil {
		return nil, E(KindUnknownSequence, ref.Name(), err)
	}
	bases, err := fa.Get(ref.Name(), 0, n)
	if err != nil {
		return nil, E(KindUnknownSequence, ref.Name(), err)
	}
	return maybeUpper(bases, upperCase), nil
}

func (f *FastaReferenceSource) load(ctx context.Context) (fasta.Fasta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fa != nil {
		return f.fa, nil
	}
	r, err := file.Open(ctx, f.path)
	if err != nil {
		return nil, E(KindUnknownSequence, "opening reference fasta", err)
	}
	defer r.Close(ctx)

	fa, err := fasta.New(r.Reader(ctx))
	if err != nil {
		return nil, E(KindUnknownSequence, "parsing reference fasta", err)
	}
	f.fa = fa
	return fa, nil
}

func maybeUpper(bases []byte, upperCase bool) []byte {
	if !upperCase {
		return bases
	}
	out := make([]byte, len(bases))
	for i, b := range bases {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out[i] = b
	}
	return out
}
