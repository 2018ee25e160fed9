package cram

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu      sync.Mutex
	records []*Record
	failAt  int // fail on the failAt-th AddAlignment call, 0 disables
	calls   int
}

func (w *recordingWriter) AddAlignment(r *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.failAt != 0 && w.calls == w.failAt {
		return fmt.Errorf("synthetic failure")
	}
	w.records = append(w.records, r)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestAsyncWriterDeliversAllRecords(t *testing.T) {
	inner := &recordingWriter{}
	w := NewAsyncWriter(inner, 2)
	for i := 0; i < 10; i++ {
		require.NoError(t, w.AddAlignment(&Record{ReadGroup: int32(i)}))
	}
	require.NoError(t, w.Close())
	assert.Len(t, inner.records, 10)
}

func TestAsyncWriterSurfacesInnerError(t *testing.T) {
	inner := &recordingWriter{failAt: 3}
	w := NewAsyncWriter(inner, 1)
	for i := 0; i < 10; i++ {
		if err := w.AddAlignment(&Record{}); err != nil {
			break
		}
	}
	err := w.Close()
	assert.Error(t, err)
}
