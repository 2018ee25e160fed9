// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"context"
	"crypto/md5"

	"github.com/grailbio/hts/sam"
	farm "github.com/dgryski/go-farm"
)

// referenceCache holds the most recently fetched reference's bases,
// keyed by sequence id, so consecutive slices against the same
// reference (the common case: a coordinate-sorted CRAM file) do not
// re-fetch it. A farm fingerprint of the bases is computed and stored
// on each fetch; lookups key on sequence id alone and do not consult
// it, and checkMD5 hashes the cached bases on every call.
type referenceCache struct {
	source ReferenceSource

	sequenceID  int32
	bases       []byte
	fingerprint uint64
	valid       bool
}

func newReferenceCache(source ReferenceSource) *referenceCache {
	return &referenceCache{source: source, sequenceID: -1}
}

// get returns the bases for sequenceID, fetching and caching them via
// the configured ReferenceSource if they are not already cached.
func (c *referenceCache) get(ctx context.Context, header *sam.Header, sequenceID int32) ([]byte, error) {
	if c.valid && c.sequenceID == sequenceID {
		return c.bases, nil
	}
	if sequenceID < 0 || int(sequenceID) >= len(header.Refs()) {
		return nil, E(KindUnknownSequence, "reference sequence id out of range", nil)
	}
	ref := header.Refs()[sequenceID]
	bases, err := c.source.GetReferenceBases(ctx, ref, true)
	if err != nil {
		return nil, err
	}
	c.sequenceID = sequenceID
	c.bases = bases
	c.fingerprint = farm.Hash64(bases)
	c.valid = true
	return bases, nil
}

// checkMD5 verifies want against the MD5 of the cached bases for
// sequenceID, always returning a KindRefMD5Mismatch error on mismatch.
// Whether a mismatch is fatal or merely a warning is the caller's
// policy decision (reader.go's RefMD5Strict), not this cache's.
func (c *referenceCache) checkMD5(sequenceID int32, want [16]byte) error {
	if !c.valid || c.sequenceID != sequenceID {
		return E(KindMalformedRecord, "ref md5 check before cache populated", nil)
	}
	var allZero [16]byte
	if want == allZero {
		return nil // some encoders omit the MD5 entirely
	}
	got := md5.Sum(c.bases)
	if got == want {
		return nil
	}
	return E(KindRefMD5Mismatch, "slice reference md5 mismatch", nil)
}
