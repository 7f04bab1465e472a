package sinks

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// SingleFileName is the file a SingleFile sink appends to inside its directory.
const SingleFileName = "activity.log"

// SingleFile appends every record to one persistent log file. Each record is
// preceded by a banner line carrying a monotonically increasing sequence
// number and a status marker. Writes are guarded by a process-level file lock
// so concurrent processes sharing a log directory do not interleave records.
type SingleFile struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *bufio.Writer
	lock   *flock.Flock
	seq    uint64
}

// NewSingleFile creates a single-file sink rooted at dir. The directory is
// cleared and recreated before the sink can receive records; the log file
// itself is created lazily on first write and opened in append mode.
func NewSingleFile(dir string) (*SingleFile, error) {
	if err := ResetDir(dir); err != nil {
		return nil, err
	}
	return &SingleFile{path: filepath.Join(dir, SingleFileName)}, nil
}

// Send implements types.Sink.
func (s *SingleFile) Send(rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return errors.Wrap(err, "acquire file lock")
	}
	defer func() {
		_ = s.lock.Unlock() // Best effort unlock
	}()

	s.seq++
	if _, err := fmt.Fprintf(s.writer, "%d %s\n%s\n", s.seq, Marker(rec), rec.Body); err != nil {
		return errors.Wrap(err, "write record")
	}
	return errors.Wrap(s.writer.Flush(), "flush record")
}

// open opens the log file on first use. Append mode, never truncating.
func (s *SingleFile) open() error {
	if s.file != nil {
		return nil
	}
	cleanPath := filepath.Clean(s.path)
	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) // #nosec G302 - log files need to be readable
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	s.file = file
	s.writer = bufio.NewWriterSize(file, DefaultBufferSize)
	s.lock = flock.New(cleanPath)
	return nil
}

// Path returns the log file path.
func (s *SingleFile) Path() string {
	return s.path
}

// Close implements types.Sink, flushing and releasing the file handle.
func (s *SingleFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	var errs []error
	if err := s.writer.Flush(); err != nil {
		errs = append(errs, errors.Wrap(err, "flush"))
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close file"))
	}
	s.file = nil
	s.writer = nil
	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}
