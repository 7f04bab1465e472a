// Package testutil provides shared helpers for tests.
package testutil

import (
	"sync"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// CaptureSink is a Sink that keeps every record in memory for assertions.
type CaptureSink struct {
	mu      sync.Mutex
	records []types.Record
	failErr error
	closed  bool
}

// NewCaptureSink creates an empty capture sink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// FailWith makes every subsequent Send return err. Nil restores success.
func (s *CaptureSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Send implements types.Sink.
func (s *CaptureSink) Send(rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.records = append(s.records, rec)
	return nil
}

// Close implements types.Sink.
func (s *CaptureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *CaptureSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Records returns a copy of the captured records.
func (s *CaptureSink) Records() []types.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of captured records.
func (s *CaptureSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
