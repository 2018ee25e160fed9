// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/grailbio/base/errorreporter"
)

// Writer consumes decoded records. It exists so callers can plug
// AsyncWriter's bounded-queue behavior behind the same interface a
// synchronous, in-process consumer implements (spec.md §5).
type Writer interface {
	AddAlignment(r *Record) error
	Close() error
}

// AsyncWriter decouples decoding from downstream consumption by a
// bounded channel: AddAlignment blocks only once queueSize records are
// pending, so a slow consumer applies backpressure to the decoder
// instead of letting memory grow unbounded (spec.md §5).
//
// The queue itself is a plain buffered channel rather than
// grailbio/base/syncqueue's pool types -- those are built for
// object-pool reuse, not producer-consumer handoff, and a channel
// already gives AddAlignment exactly the blocking-send backpressure
// this writer needs.
type AsyncWriter struct {
	queue chan *Record
	done  chan struct{}
	errs  errorreporter.T
	inner Writer
}

// NewAsyncWriter starts a background goroutine draining records into
// inner, queueSize deep.
func NewAsyncWriter(inner Writer, queueSize int) *AsyncWriter {
	w := &AsyncWriter{
		queue: make(chan *Record, queueSize),
		done:  make(chan struct{}),
		inner: inner,
	}
	go w.run()
	return w
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for r := range w.queue {
		if w.errs.Err() != nil {
			continue // drain the rest of the queue so senders never block forever
		}
		if err := w.inner.AddAlignment(r); err != nil {
			w.errs.Set(err)
		}
	}
}

// AddAlignment enqueues r, blocking if the queue is full.
func (w *AsyncWriter) AddAlignment(r *Record) error {
	if err := w.errs.Err(); err != nil {
		return err
	}
	w.queue <- r
	return nil
}

// Close stops accepting new records, waits for the queue to drain, and
// closes the inner Writer, returning whichever error occurred first.
func (w *AsyncWriter) Close() error {
	close(w.queue)
	<-w.done
	if err := w.errs.Err(); err != nil {
		return err
	}
	return w.inner.Close()
}
