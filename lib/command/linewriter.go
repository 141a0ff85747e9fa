// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"io"
	"sync"
)

// maxPendingLine bounds how much of an unterminated line is held back
// before it is forwarded anyway.
const maxPendingLine = 64 * 1024

// lineWriter forwards whole lines to the underlying writer as soon as
// their newline arrives. Partial lines are held until completed, until
// they exceed maxPendingLine, or until Flush. Writers created with the
// same mutex never write to their targets concurrently.
type lineWriter struct {
	mu      *sync.Mutex
	out     io.Writer
	pending []byte
}

func newLineWriter(out io.Writer, mu *sync.Mutex) *lineWriter {
	if mu == nil {
		mu = new(sync.Mutex)
	}
	return &lineWriter{mu: mu, out: out}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	if end := bytes.LastIndexByte(w.pending, '\n'); end >= 0 {
		if _, err := w.out.Write(w.pending[:end+1]); err != nil {
			return 0, err
		}
		w.pending = append(w.pending[:0], w.pending[end+1:]...)
	}
	if len(w.pending) > maxPendingLine {
		if err := w.flushLocked(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes any held partial line.
func (w *lineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *lineWriter) flushLocked() error {
	if len(w.pending) == 0 {
		return nil
	}
	_, err := w.out.Write(w.pending)
	w.pending = w.pending[:0]
	return err
}
