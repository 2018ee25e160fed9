// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cram decodes CRAM containers into sam.Record values.
//
// A CRAM file is a file header followed by a stream of containers, each
// holding a compression header and one or more slices. Each slice
// carries a handful of compressed blocks: a core bit stream shared by
// every "core"-encoded data series, plus one external byte block per
// content id referenced by the compression header. Reader walks that
// structure end to end: container, slice, block, record, and hands back
// fully reconstructed alignment records with bases, quality scores and
// read features expanded against a reference.
//
// This package only decodes. There is no CRAM encoder.
package cram
