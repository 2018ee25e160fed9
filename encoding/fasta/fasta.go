// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fasta parses FASTA-formatted reference sequence data: a set
// of named sequences, each introduced by a ">name ..." header line and
// continued over any number of wrapped lines until the next header or
// end of input. A sequence's name is the text up to (not including) the
// first space after '>'; anything after that space is ignored.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const scannerBufferSize = 1024 * 1024 * 300 // 300 MB, room for a whole chromosome line

// Fasta holds every sequence read from one FASTA source, in memory.
type Fasta interface {
	// Get returns the bases of seqName over the 0-based half-open
	// interval [start, end).
	Get(seqName string, start, end uint64) ([]byte, error)

	// Len returns the full length of seqName.
	Len(seqName string) (uint64, error)

	// SeqNames returns every sequence name, in the order it appeared in
	// the source.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string][]byte
	seqNames []string
}

// New reads every sequence in r into memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, scannerBufferSize)

	var name string
	var seq strings.Builder
	flush := func() error {
		if seq.Len() == 0 {
			return nil
		}
		if name == "" {
			return errors.Errorf("fasta: sequence data before any header line")
		}
		f.seqs[name] = []byte(seq.String())
		f.seqNames = append(f.seqNames, name)
		seq.Reset()
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.SplitN(line[1:], " ", 2)[0]
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: reading sequence data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *fasta) Get(seqName string, start, end uint64) ([]byte, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return nil, errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	if end <= start {
		return nil, errors.Errorf("fasta: start %d must be less than end %d", start, end)
	}
	if end > uint64(len(s)) {
		return nil, errors.Errorf("fasta: range %d-%d out of bounds for sequence %s of length %d", start, end, seqName, len(s))
	}
	return s[start:end], nil
}

func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

func (f *fasta) SeqNames() []string { return f.seqNames }
